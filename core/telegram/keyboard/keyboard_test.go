package keyboard

import "testing"

func TestReplyButtonsSingleRow(t *testing.T) {
	markup := ReplyButtons([]string{"🍺", "🥃", "🍷", "🍸"})
	if !markup.ResizeKeyboard {
		t.Fatal("keyboard must be resized")
	}
	if len(markup.ReplyKeyboard) != 1 {
		t.Fatalf("rows = %d, expected 1", len(markup.ReplyKeyboard))
	}
	row := markup.ReplyKeyboard[0]
	if len(row) != 4 {
		t.Fatalf("buttons = %d, expected 4", len(row))
	}
	if row[0].Text != "🍺" {
		t.Fatalf("first button = %q", row[0].Text)
	}
}

func TestLocationRequest(t *testing.T) {
	markup := LocationRequest("Yes, please")
	if len(markup.ReplyKeyboard) != 1 || len(markup.ReplyKeyboard[0]) != 1 {
		t.Fatal("expected exactly one button")
	}
	btn := markup.ReplyKeyboard[0][0]
	if btn.Text != "Yes, please" {
		t.Fatalf("button text = %q", btn.Text)
	}
	if !btn.Location {
		t.Fatal("button must request location")
	}
}
