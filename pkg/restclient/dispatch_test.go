package restclient

import (
	"context"
	"net/http"
	"reflect"
	"testing"
)

func TestAttrAppendsNonVerbNames(t *testing.T) {
	c := newTestClient(t, Options{Host: "H", Version: 3})

	fn, next := c.Attr("hello")
	if fn != nil {
		t.Fatalf("expected no request func for a path name")
	}
	if next != c {
		t.Fatalf("expected Attr to return the same client")
	}
	if want := []any{"hello"}; !reflect.DeepEqual(c.PathSegments(), want) {
		t.Fatalf("PathSegments = %#v, want %#v", c.PathSegments(), want)
	}
}

func TestAttrBindsVerbs(t *testing.T) {
	stub := &stubDoer{}
	c := newTestClient(t, Options{Host: "H", Version: 3, Transport: stub})

	for _, name := range []string{"get", "POST", "Put", "patch", "delete"} {
		_, next := c.Attr("api_keys")
		if next == nil {
			t.Fatalf("path name resolved as verb")
		}
		fn, none := c.Attr(name)
		if fn == nil || none != nil {
			t.Fatalf("Attr(%q) did not resolve to a verb", name)
		}
		if _, err := fn(context.Background()); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if c.Count() != 0 {
			t.Fatalf("path not reset after %s", name)
		}
	}

	want := []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}
	for i, req := range stub.reqs {
		if req.Method != want[i] {
			t.Errorf("request %d method = %s, want %s", i, req.Method, want[i])
		}
		if req.URL != "H/v3/api_keys" {
			t.Errorf("request %d url = %s", i, req.URL)
		}
	}
}

func TestSegmentAllowsVerbNamedPaths(t *testing.T) {
	c := newTestClient(t, Options{Host: "H", Version: 3})
	c.Segment("scopes").Segment("delete")
	if got := c.BuildURL(nil); got != "H/v3/scopes/delete" {
		t.Fatalf("BuildURL = %q", got)
	}
}

func TestMethods(t *testing.T) {
	want := []string{"delete", "get", "patch", "post", "put"}
	if got := Methods(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Methods = %v, want %v", got, want)
	}
	for _, m := range want {
		if !IsMethod(m) {
			t.Errorf("IsMethod(%q) = false", m)
		}
	}
	if IsMethod("head") {
		t.Errorf("IsMethod(head) = true")
	}
}
