package remote

import "testing"

func TestCallContextDistinguishesAbsentFromZero(t *testing.T) {
	mc := NewCallContext()

	if _, ok := mc.Get("missing"); ok {
		t.Fatalf("expected absent key")
	}

	mc.Set("flag", false)
	v, ok := mc.Get("flag")
	if !ok {
		t.Fatalf("expected key to be present after Set")
	}
	if v != false {
		t.Fatalf("got %v, want stored zero value", v)
	}

	mc.Delete("flag")
	if _, ok := mc.Get("flag"); ok {
		t.Fatalf("expected key to be absent after Delete")
	}
}

func TestCallContextFluentChaining(t *testing.T) {
	mc := NewCallContext()
	if mc.Set("a", 1).Set("b", 2).Delete("a") != mc {
		t.Fatalf("Set/Delete must return the receiver")
	}
	if _, ok := mc.Get("a"); ok {
		t.Fatalf("key a should be deleted")
	}
	if v, _ := mc.Get("b"); v != 2 {
		t.Fatalf("key b lost: %v", v)
	}
}

func TestTypedKeyRoundTrip(t *testing.T) {
	attempts := Key[int]("retry.attempts")
	mc := NewCallContext()

	if _, ok := attempts.Value(mc); ok {
		t.Fatalf("expected unset typed key")
	}

	attempts.Set(mc, 3)
	if v, ok := attempts.Value(mc); !ok || v != 3 {
		t.Fatalf("got %d %v, want 3 true", v, ok)
	}

	attempts.Delete(mc)
	if _, ok := attempts.Value(mc); ok {
		t.Fatalf("expected typed key removed")
	}
}

func TestTypedKeyRejectsMismatchedType(t *testing.T) {
	name := Key[string]("caller.name")
	mc := NewCallContext()

	// Untyped write under the same string key with a different type.
	mc.Set("caller.name", 42)

	if v, ok := name.Value(mc); ok {
		t.Fatalf("expected typed miss, got %q", v)
	}
}
