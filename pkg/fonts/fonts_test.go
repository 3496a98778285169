package fonts

import "testing"

func TestFace(t *testing.T) {
	face, err := Face(14)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	defer face.Close()

	if h := face.Metrics().Height.Ceil(); h <= 0 {
		t.Errorf("line height = %d, want > 0", h)
	}
}

func TestRegularIsShared(t *testing.T) {
	a, err := Regular()
	if err != nil {
		t.Fatal(err)
	}
	b, _ := Regular()
	if a != b {
		t.Error("Regular() should parse the font once")
	}
}
