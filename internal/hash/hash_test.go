package hash

import "testing"

func TestSHA256Hasher_HashBytes(t *testing.T) {
	hasher := NewSHA256Hasher()

	t.Run("known digest", func(t *testing.T) {
		// Known SHA-256 of "hello world"
		want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
		if got := hasher.HashBytes([]byte("hello world")); got != want {
			t.Errorf("HashBytes = %s, want %s", got, want)
		}
	})

	t.Run("stable across calls", func(t *testing.T) {
		content := []byte(`{"title":"schema"}`)
		if hasher.HashBytes(content) != hasher.HashBytes(content) {
			t.Error("HashBytes inconsistent for the same content")
		}
	})

	t.Run("different content has different hashes", func(t *testing.T) {
		if hasher.HashBytes([]byte("content A")) == hasher.HashBytes([]byte("content B")) {
			t.Error("different content produced the same hash")
		}
	})

	t.Run("empty input", func(t *testing.T) {
		want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
		if got := hasher.HashBytes(nil); got != want {
			t.Errorf("HashBytes(nil) = %s, want %s", got, want)
		}
	})
}

func TestShort(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9", want: "b94d27b9934d"},
		{in: "abc", want: "abc"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := Short(tt.in); got != tt.want {
			t.Errorf("Short(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
