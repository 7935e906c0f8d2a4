package format

import (
	"errors"
	"io"
	"testing"

	"github.com/cocosip/go-ct-backproject/projection"
	"github.com/cocosip/go-ct-backproject/volume"
)

// fakeDecoder is a minimal ProjectionDecoder for registry tests.
type fakeDecoder struct {
	name string
	exts []string
}

func (f *fakeDecoder) Decode(r io.Reader) ([]*projection.Projection, error) { return nil, nil }
func (f *fakeDecoder) Name() string                                         { return f.name }
func (f *fakeDecoder) Extensions() []string                                 { return f.exts }

// fakeEncoder is a minimal VolumeEncoder for registry tests.
type fakeEncoder struct {
	name string
	exts []string
}

func (f *fakeEncoder) Encode(w io.Writer, v *volume.Volume) error { return nil }
func (f *fakeEncoder) Name() string                               { return f.name }
func (f *fakeEncoder) Extensions() []string                       { return f.exts }

func newRegistry() *Registry {
	return &Registry{
		decoders: make(map[string]ProjectionDecoder),
		encoders: make(map[string]VolumeEncoder),
	}
}

func TestRegisterAndGetDecoder(t *testing.T) {
	r := newRegistry()
	d := &fakeDecoder{name: "FAKE", exts: []string{".fak", ".fk2"}}
	r.RegisterDecoder(d)

	for _, key := range []string{"FAKE", "fake", ".fak", "fak", ".FK2"} {
		got, err := r.GetDecoder(key)
		if err != nil {
			t.Fatalf("GetDecoder(%q) failed: %v", key, err)
		}
		if got != ProjectionDecoder(d) {
			t.Fatalf("GetDecoder(%q) returned wrong decoder", key)
		}
	}
}

func TestGetDecoderNotFound(t *testing.T) {
	r := newRegistry()
	if _, err := r.GetDecoder(".missing"); !errors.Is(err, ErrFormatNotFound) {
		t.Fatalf("got %v, want ErrFormatNotFound", err)
	}
}

func TestRegisterAndGetEncoder(t *testing.T) {
	r := newRegistry()
	e := &fakeEncoder{name: "FAKE", exts: []string{".fak"}}
	r.RegisterEncoder(e)

	for _, key := range []string{"FAKE", ".fak"} {
		got, err := r.GetEncoder(key)
		if err != nil {
			t.Fatalf("GetEncoder(%q) failed: %v", key, err)
		}
		if got != VolumeEncoder(e) {
			t.Fatalf("GetEncoder(%q) returned wrong encoder", key)
		}
	}
	if _, err := r.GetEncoder("nope"); !errors.Is(err, ErrFormatNotFound) {
		t.Fatalf("got %v, want ErrFormatNotFound", err)
	}
}

// A format registered under several keys appears once in the listing.
func TestListDeduplicates(t *testing.T) {
	r := newRegistry()
	r.RegisterDecoder(&fakeDecoder{name: "A", exts: []string{".a", ".aa"}})
	r.RegisterDecoder(&fakeDecoder{name: "B", exts: []string{".b"}})
	r.RegisterEncoder(&fakeEncoder{name: "C", exts: []string{".c", ".cc"}})

	if got := len(r.ListDecoders()); got != 2 {
		t.Errorf("ListDecoders returned %d formats, want 2", got)
	}
	if got := len(r.ListEncoders()); got != 1 {
		t.Errorf("ListEncoders returned %d formats, want 1", got)
	}
}

// Re-registering a name replaces the previous format.
func TestRegisterReplaces(t *testing.T) {
	r := newRegistry()
	old := &fakeDecoder{name: "FAKE", exts: []string{".fak"}}
	upd := &fakeDecoder{name: "FAKE", exts: []string{".fak"}}
	r.RegisterDecoder(old)
	r.RegisterDecoder(upd)

	got, err := r.GetDecoder("fake")
	if err != nil {
		t.Fatalf("GetDecoder failed: %v", err)
	}
	if got != ProjectionDecoder(upd) {
		t.Fatal("lookup returned the replaced decoder")
	}
}
