package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func writeTestCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rows.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return path
}

func TestParseRowsCSV(t *testing.T) {
	path := writeTestCSV(t, "institution,program_part1,program_part2,core_subjects,recommended_subjects,note\n"+
		"성균관대,공과,기계공학,\"수학,물리학\",\"미적분Ⅱ,기하\",2024학년도 기준\n"+
		"한양대,,,수학,,\n")

	rows, err := parseRowsCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	first := rows[0]
	if first.Line != 2 {
		t.Errorf("unexpected line: %d", first.Line)
	}
	if first.Institution != "성균관대" {
		t.Errorf("unexpected institution: %q", first.Institution)
	}
	if first.CoreSubjects != "수학,물리학" {
		t.Errorf("unexpected core subjects: %q", first.CoreSubjects)
	}
	if first.Note != "2024학년도 기준" {
		t.Errorf("unexpected note: %q", first.Note)
	}

	second := rows[1]
	if second.Institution != "한양대" || second.ProgramPart1 != "" {
		t.Errorf("unexpected second row: %+v", second)
	}
}

func TestParseRowsCSV_MissingRequiredColumn(t *testing.T) {
	path := writeTestCSV(t, "institution,program_part1\n서울대,공과\n")

	if _, err := parseRowsCSV(path); err == nil {
		t.Fatal("expected error for missing required columns")
	}
}

func TestParseRowsCSV_UnexpectedColumn(t *testing.T) {
	path := writeTestCSV(t, "institution,program_part1,core_subjects,recommended_subjects,tier\n서울대,공과,수학,,gold\n")

	if _, err := parseRowsCSV(path); err == nil {
		t.Fatal("expected error for unexpected column")
	}
}

func TestParseRowsCSV_NoDataRows(t *testing.T) {
	path := writeTestCSV(t, "institution,program_part1,core_subjects,recommended_subjects\n")

	if _, err := parseRowsCSV(path); err == nil {
		t.Fatal("expected error for empty file")
	}
}

func TestParseRowsCSV_StripsBOM(t *testing.T) {
	path := writeTestCSV(t, "\xEF\xBB\xBFinstitution,program_part1,core_subjects,recommended_subjects\n서울대,공과,수학,\n")

	rows, err := parseRowsCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0].Institution != "서울대" {
		t.Errorf("unexpected institution: %q", rows[0].Institution)
	}
}

func TestParseRowsCSV_RejectsNonUTF8(t *testing.T) {
	// "서울" in CP949 (EUC-KR) bytes, as legacy Excel exports produce
	path := writeTestCSV(t, "institution,program_part1,core_subjects,recommended_subjects\n"+
		"\xBC\xAD\xBF\xEF,공과,수학,\n")

	_, err := parseRowsCSV(path)
	if err == nil {
		t.Fatal("expected error for non-UTF-8 row data")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the offending line, got: %v", err)
	}
}

func TestParseRowsXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []interface{}{"institution", "program_part1", "program_part2", "core_subjects", "recommended_subjects", "note"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("set header: %v", err)
	}
	row := []interface{}{"성균관대", "공과", "기계공학", "수학,물리학", "미적분Ⅱ,기하", "2024학년도 기준"}
	if err := f.SetSheetRow(sheet, "A2", &row); err != nil {
		t.Fatalf("set row: %v", err)
	}

	path := filepath.Join(t.TempDir(), "rows.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save xlsx: %v", err)
	}
	_ = f.Close()

	rows, err := parseRowsXLSX(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Line != 2 {
		t.Errorf("unexpected line: %d", rows[0].Line)
	}
	if rows[0].RecommendedSubjects != "미적분Ⅱ,기하" {
		t.Errorf("unexpected recommended subjects: %q", rows[0].RecommendedSubjects)
	}
}

func TestDryRunSummary(t *testing.T) {
	path := writeTestCSV(t, "institution,program_part1,program_part2,core_subjects,recommended_subjects\n"+
		"성균관대,공과,기계공학,\"수학,물리학\",기하\n"+
		"성균관대학교,공과,기계공학,수학,\n")

	rows, err := parseRowsCSV(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	summary := dryRunSummary(rows)
	if summary["total_rows"] != 2 {
		t.Errorf("unexpected total_rows: %v", summary["total_rows"])
	}
	if summary["institutions_seen"] != 1 {
		t.Errorf("expected both spellings to dedup to one institution, got %v", summary["institutions_seen"])
	}
	if summary["subjects_seen"] != 3 {
		t.Errorf("unexpected subjects_seen: %v", summary["subjects_seen"])
	}
}
