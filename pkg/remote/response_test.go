package remote

import (
	"fmt"
	"testing"
)

func TestResponseBodyIsLazyAndCached(t *testing.T) {
	reads := 0
	resp := NewResponse(200, "200 OK", nil, func() ([]byte, error) {
		reads++
		return []byte("payload"), nil
	})

	if reads != 0 {
		t.Fatalf("body materialized before first access")
	}

	for i := 0; i < 3; i++ {
		body, err := resp.Body()
		if err != nil {
			t.Fatalf("Body: %v", err)
		}
		if string(body) != "payload" {
			t.Fatalf("body = %q", body)
		}
	}
	if reads != 1 {
		t.Fatalf("read function invoked %d times, want 1", reads)
	}
}

func TestResponseBodyCachesReadError(t *testing.T) {
	reads := 0
	resp := NewResponse(200, "200 OK", nil, func() ([]byte, error) {
		reads++
		return nil, fmt.Errorf("cut connection")
	})

	if _, err := resp.Body(); err == nil {
		t.Fatalf("expected read error")
	}
	if _, err := resp.Body(); err == nil {
		t.Fatalf("expected cached read error")
	}
	if reads != 1 {
		t.Fatalf("read function invoked %d times, want 1", reads)
	}
}

func TestBufferedResponseJSON(t *testing.T) {
	resp := NewBufferedResponse(200, "200 OK", map[string]string{"Content-Type": "application/json"}, []byte(`{"tables":["a","b"]}`))

	var decoded struct {
		Tables []string `json:"tables"`
	}
	if err := resp.JSON(&decoded); err != nil {
		t.Fatalf("JSON: %v", err)
	}
	if len(decoded.Tables) != 2 || decoded.Tables[0] != "a" {
		t.Fatalf("decoded = %+v", decoded)
	}
}

func TestIsSuccessBounds(t *testing.T) {
	cases := map[int]bool{199: false, 200: true, 204: true, 299: true, 300: false, 404: false, 500: false}
	for status, want := range cases {
		resp := NewBufferedResponse(status, "", nil, nil)
		if resp.IsSuccess() != want {
			t.Fatalf("IsSuccess(%d) = %v, want %v", status, resp.IsSuccess(), want)
		}
	}
}
