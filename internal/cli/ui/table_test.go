package ui

import (
	"bytes"
	"strings"
	"testing"
)

func TestTableAlignsWideRunes(t *testing.T) {
	var buf bytes.Buffer
	table := NewTable(&buf, []string{"Name", "Label"}, &TableOptions{NoColor: true})
	table.AddRow("motor_on", "モーター")
	table.AddRow("wait", "待つ")
	table.Render()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.HasPrefix(lines[0], "Name      Label") {
		t.Errorf("unexpected header %q", lines[0])
	}
	if !strings.Contains(lines[1], "─") {
		t.Errorf("missing separator %q", lines[1])
	}
	// second column starts at the same cell in every row
	if !strings.HasPrefix(lines[2], "motor_on  モーター") || !strings.HasPrefix(lines[3], "wait      待つ") {
		t.Errorf("rows are not aligned:\n%s", buf.String())
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := map[string]int{
		"":          0,
		"wait":      4,
		"待つ":        4,
		"A+B":       3,
		"全て":        4,
		"温度センサー（℃）": 17,
	}
	for s, want := range tests {
		if got := DisplayWidth(s); got != want {
			t.Errorf("DisplayWidth(%q) = %d, want %d", s, got, want)
		}
	}
}

func TestKeyValueTable(t *testing.T) {
	var buf bytes.Buffer
	kv := NewKeyValueTable(&buf, true)
	kv.AddRow("Role", "statement")
	kv.AddRow("Colour", "#FFAB19")
	kv.Render()

	want := "Role:   statement\nColour: #FFAB19\n"
	if buf.String() != want {
		t.Errorf("KeyValueTable output = %q, want %q", buf.String(), want)
	}
}

func TestListAndSection(t *testing.T) {
	var buf bytes.Buffer
	l := NewList(&buf, ListOptions{Numbered: true, NoColor: true})
	l.AddItem("first")
	l.AddItem("second")
	l.Render()
	if buf.String() != "1. first\n2. second\n" {
		t.Errorf("List output = %q", buf.String())
	}

	buf.Reset()
	s := NewSection(&buf, "Fields", true)
	s.AddLine("MOTORS = OUT_A")
	s.Render()
	if buf.String() != "Fields\n  MOTORS = OUT_A\n\n" {
		t.Errorf("Section output = %q", buf.String())
	}
}
