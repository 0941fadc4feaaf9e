package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jinhak-io/jinhak/modules/catalog/domain/entities/entity"
)

func TestRegistry_Collect(t *testing.T) {
	rows := []RawRow{
		{
			Line:                2,
			Institution:         "성균관대",
			ProgramPart1:        "공과",
			ProgramPart2:        "기계공학",
			CoreSubjects:        "수학,물리학",
			RecommendedSubjects: "미적분Ⅱ,기하",
		},
		{
			Line:                3,
			Institution:         "성균관대학교", // same institution, different spelling
			ProgramPart1:        "공과",
			ProgramPart2:        "기계공학",
			CoreSubjects:        "수학", // duplicate subject
			RecommendedSubjects: "",
		},
	}

	r := NewRegistry()
	r.Collect(rows)

	assert.Equal(t, 1, r.Count(entity.TypeInstitution))
	assert.Equal(t, 1, r.Count(entity.TypeProgram))
	assert.Equal(t, 4, r.Count(entity.TypeSubject))

	assert.Equal(t, []string{"성균관대학교"}, r.Names(entity.TypeInstitution))
	assert.Equal(t, []string{"공과대학 기계공학"}, r.Names(entity.TypeProgram))
	assert.Equal(t, []string{"수학", "물리학", "미적분Ⅱ", "기하"}, r.Names(entity.TypeSubject))
}

func TestRegistry_EmptyFieldsIgnored(t *testing.T) {
	rows := []RawRow{
		{Line: 2, Institution: "", ProgramPart1: "", ProgramPart2: "", CoreSubjects: " , ,"},
	}

	r := NewRegistry()
	r.Collect(rows)

	assert.Equal(t, 0, r.Count(entity.TypeInstitution))
	assert.Equal(t, 0, r.Count(entity.TypeProgram))
	assert.Equal(t, 0, r.Count(entity.TypeSubject))
	assert.Empty(t, r.Names(entity.TypeInstitution))
}
