package service

import (
	"strings"
	"testing"
)

func TestNormalizeAnswerKey(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		choices int
		want    string
		wantErr bool
	}{
		{name: "single letter", raw: "B", choices: 4, want: "B"},
		{name: "lowercase", raw: "b", choices: 4, want: "B"},
		{name: "multi select sorted", raw: "DB", choices: 4, want: "BD"},
		{name: "duplicates collapsed", raw: "AAB", choices: 4, want: "AB"},
		{name: "six choices", raw: "FA", choices: 6, want: "AF"},
		{name: "letter out of range", raw: "E", choices: 4, wantErr: true},
		{name: "empty", raw: "  ", choices: 4, wantErr: true},
		{name: "non letter", raw: "1", choices: 4, wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalizeAnswerKey(tc.raw, tc.choices)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("normalizeAnswerKey(%q, %d) = %q, want error", tc.raw, tc.choices, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeAnswerKey(%q, %d): %v", tc.raw, tc.choices, err)
			}
			if got != tc.want {
				t.Fatalf("normalizeAnswerKey(%q, %d) = %q, want %q", tc.raw, tc.choices, got, tc.want)
			}
		})
	}
}

func TestParseQuestionsCSV(t *testing.T) {
	csv := strings.Join([]string{
		"question,choiceA,choiceB,choiceC,choiceD,correctChoice,explanation,categoryId",
		"What is 2+2?,3,4,5,6,B,Basic arithmetic,1",
		"Pick the primes,2,3,4,9,ab,,1",
		"Six way question,a,b,c,d,e,f,F,last one,2",
		"Missing text,,4,5,6,B,,1",
		"Bad key,3,4,5,6,Z,,1",
	}, "\n")

	rows, skipped, err := parseQuestionsCSV(csv)
	if err != nil {
		t.Fatalf("parseQuestionsCSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3: %+v", len(rows), rows)
	}
	if len(skipped) != 2 {
		t.Fatalf("got %d skipped, want 2: %v", len(skipped), skipped)
	}

	if rows[0].QuestionText != "What is 2+2?" || rows[0].CorrectAnswer != "B" || rows[0].CategoryID != 1 {
		t.Errorf("row 0 parsed wrong: %+v", rows[0].Question)
	}
	if rows[0].Explanation != "Basic arithmetic" {
		t.Errorf("row 0 explanation = %q", rows[0].Explanation)
	}
	if rows[1].CorrectAnswer != "AB" {
		t.Errorf("row 1 answer key = %q, want AB", rows[1].CorrectAnswer)
	}
	if rows[2].ChoiceE == nil || *rows[2].ChoiceE != "e" || rows[2].ChoiceF == nil || *rows[2].ChoiceF != "f" {
		t.Errorf("row 2 extra choices parsed wrong: %+v", rows[2].Question)
	}
	if rows[2].CorrectAnswer != "F" || rows[2].CategoryID != 2 {
		t.Errorf("row 2 key/category = %q/%d", rows[2].CorrectAnswer, rows[2].CategoryID)
	}

	for _, reason := range skipped {
		if !strings.HasPrefix(reason, "line ") {
			t.Errorf("skip reason does not name a line: %q", reason)
		}
	}
}

func TestParseQuestionsCSVNoHeader(t *testing.T) {
	rows, skipped, err := parseQuestionsCSV("Only question?,w,x,y,z,D,,3\n")
	if err != nil {
		t.Fatalf("parseQuestionsCSV: %v", err)
	}
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}
	if len(rows) != 1 || rows[0].CategoryID != 3 || rows[0].CorrectAnswer != "D" {
		t.Fatalf("headerless row parsed wrong: %+v", rows)
	}
}

func TestParseQuestionsCSVBadColumnCount(t *testing.T) {
	csv := "question,choiceA,choiceB,choiceC,choiceD,correctChoice,explanation,categoryId\n" +
		"too,few,columns\n"
	rows, skipped, err := parseQuestionsCSV(csv)
	if err != nil {
		t.Fatalf("parseQuestionsCSV: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("got %d rows, want 0", len(rows))
	}
	if len(skipped) != 1 || !strings.Contains(skipped[0], "columns") {
		t.Fatalf("skipped = %v", skipped)
	}
}
