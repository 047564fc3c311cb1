package colspec

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	data := []byte(`
- name: user_id
  type: number
  key: true
- name: age
  type: number
- name: churned
  type: bool
  label: true
`)
	spec, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []string{"user_id", "age", "churned"}
	if !reflect.DeepEqual(spec.ColumnNames(), want) {
		t.Errorf("ColumnNames() = %v, want %v", spec.ColumnNames(), want)
	}
	key, err := spec.KeyColumn()
	if err != nil || key != "user_id" {
		t.Errorf("KeyColumn() = (%q, %v), want user_id", key, err)
	}
}

func TestParse_InvalidSpec(t *testing.T) {
	data := []byte(`
- name: a
  type: number
  key: true
- name: b
  type: number
  key: true
`)
	_, err := Parse(data)
	if !errors.Is(err, ErrColumnMultiKey) {
		t.Fatalf("error = %v, want ErrColumnMultiKey", err)
	}
}

func TestParse_MalformedYAML(t *testing.T) {
	if _, err := Parse([]byte("{broken")); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}
