package ingest

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jinhak-io/jinhak/modules/catalog/domain/entities/association"
)

func testIDMaps() IDMaps {
	return IDMaps{
		Institutions: map[string]uuid.UUID{
			"성균관대학교": uuid.New(),
		},
		Programs: map[string]uuid.UUID{
			"공과대학 기계공학": uuid.New(),
		},
		Subjects: map[string]uuid.UUID{
			"수학":   uuid.New(),
			"물리학":  uuid.New(),
			"미적분Ⅱ": uuid.New(),
			"기하":   uuid.New(),
		},
	}
}

func TestBuildAssociations_FullRow(t *testing.T) {
	ids := testIDMaps()
	rows := []RawRow{
		{
			Line:                2,
			Institution:         "성균관대",
			ProgramPart1:        "공과",
			ProgramPart2:        "기계공학",
			CoreSubjects:        "수학,물리학",
			RecommendedSubjects: "미적분Ⅱ,기하",
			Note:                " 2024학년도 기준 ",
		},
	}

	res := BuildAssociations(rows, ids)

	require.Len(t, res.Associations, 4)
	assert.Empty(t, res.SkippedRows)
	assert.Empty(t, res.SkippedSubjects)

	var core, recommended int
	for _, a := range res.Associations {
		assert.Equal(t, ids.Institutions["성균관대학교"], a.InstitutionID())
		assert.Equal(t, ids.Programs["공과대학 기계공학"], a.ProgramID())
		require.NotNil(t, a.Note())
		assert.Equal(t, "2024학년도 기준", *a.Note())
		switch a.Level() {
		case association.LevelCore:
			core++
		case association.LevelRecommended:
			recommended++
		}
	}
	assert.Equal(t, 2, core)
	assert.Equal(t, 2, recommended)
}

func TestBuildAssociations_SkipsRowWithEmptyInstitution(t *testing.T) {
	ids := testIDMaps()
	rows := []RawRow{
		{Line: 2, Institution: "  ", ProgramPart1: "공과", ProgramPart2: "기계공학", CoreSubjects: "수학"},
		{Line: 3, Institution: "성균관대", ProgramPart1: "공과", ProgramPart2: "기계공학", CoreSubjects: "수학"},
	}

	res := BuildAssociations(rows, ids)

	require.Len(t, res.SkippedRows, 1)
	assert.Equal(t, 2, res.SkippedRows[0].Line)
	assert.Len(t, res.Associations, 1)
}

func TestBuildAssociations_SkipsRowWithUnresolvedProgram(t *testing.T) {
	ids := testIDMaps()
	rows := []RawRow{
		{Line: 2, Institution: "성균관대", ProgramPart1: "의과", ProgramPart2: "의예과", CoreSubjects: "수학"},
	}

	res := BuildAssociations(rows, ids)

	require.Len(t, res.SkippedRows, 1)
	assert.Equal(t, "unresolved institution or program ID", res.SkippedRows[0].Reason)
	assert.Empty(t, res.Associations)
}

func TestBuildAssociations_UnresolvedSubjectAbandonsRestOfList(t *testing.T) {
	ids := testIDMaps()
	rows := []RawRow{
		{
			Line:                2,
			Institution:         "성균관대",
			ProgramPart1:        "공과",
			ProgramPart2:        "기계공학",
			CoreSubjects:        "수학,화학,물리학", // 화학 unresolved; 물리학 is abandoned with it
			RecommendedSubjects: "기하",
		},
	}

	res := BuildAssociations(rows, ids)

	require.Len(t, res.SkippedSubjects, 1)
	assert.Equal(t, "화학", res.SkippedSubjects[0].Subject)
	assert.Equal(t, association.LevelCore, res.SkippedSubjects[0].Level)

	// 수학 (before the failure) and the whole recommended list survive.
	require.Len(t, res.Associations, 2)
	assert.Equal(t, ids.Subjects["수학"], res.Associations[0].SubjectID())
	assert.Equal(t, ids.Subjects["기하"], res.Associations[1].SubjectID())
}

func TestBuildAssociations_BlankNoteIsNil(t *testing.T) {
	ids := testIDMaps()
	rows := []RawRow{
		{Line: 2, Institution: "성균관대", ProgramPart1: "공과", ProgramPart2: "기계공학", CoreSubjects: "수학", Note: "   "},
	}

	res := BuildAssociations(rows, ids)

	require.Len(t, res.Associations, 1)
	assert.Nil(t, res.Associations[0].Note())
}
