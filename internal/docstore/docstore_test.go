package docstore

import (
	"errors"
	"testing"
)

func TestValidateFilters(t *testing.T) {
	if err := ValidateFilters([]Filter{Eq("customer_id", "c1")}); err != nil {
		t.Fatalf("equality filter rejected: %v", err)
	}
	if err := ValidateFilters([]Filter{{Field: "date", Op: "<", Value: "x"}}); !errors.Is(err, ErrUnsupportedOp) {
		t.Fatalf("want ErrUnsupportedOp, got %v", err)
	}
	if err := ValidateFilters([]Filter{Eq("a'); DROP", 1)}); err == nil {
		t.Fatalf("expected invalid field name to be rejected")
	}
}

func TestMergeIgnoresID(t *testing.T) {
	doc := Document{IDField: "a", "name": "x", "age": 30.0}
	out := Merge(doc, Document{IDField: "b", "age": 31.0})
	if out[IDField] != "a" || out["age"] != 31.0 || out["name"] != "x" {
		t.Fatalf("unexpected merge result: %v", out)
	}
	if doc["age"] != 30.0 {
		t.Fatalf("merge must not mutate its input")
	}
}

func TestMatchesNormalizesValues(t *testing.T) {
	doc := Document{"reps": 10.0, "tags": []any{"a", "b"}, "name": "squat"}
	ok, err := Matches(doc, []Filter{Eq("reps", 10), Eq("tags", []string{"a", "b"}), Eq("name", "squat")})
	if err != nil || !ok {
		t.Fatalf("expected match, ok=%v err=%v", ok, err)
	}
	ok, _ = Matches(doc, []Filter{Eq("missing", "x")})
	if ok {
		t.Fatalf("missing field must not match")
	}
}

func TestEncodeDecodeStampsID(t *testing.T) {
	body, err := Encode(Document{IDField: "x", "k": "v"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if string(body) != `{"k":"v"}` {
		t.Fatalf("id must not be stored in the body: %s", body)
	}
	doc, err := Decode("y", body)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc[IDField] != "y" {
		t.Fatalf("decode must stamp id, got %v", doc)
	}
}
