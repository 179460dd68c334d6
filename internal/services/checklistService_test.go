package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tanmaybh/CityMate/internal/models"
)

func keys(tpls []checklistTemplate) map[string]bool {
	out := make(map[string]bool, len(tpls))
	for _, tpl := range tpls {
		out[tpl.Key] = true
	}
	return out
}

func TestChecklistTemplatesIncludeBaseSet(t *testing.T) {
	for _, path := range []string{models.PathStudent, models.PathExpat, models.PathEntrepreneur, ""} {
		got := keys(checklistFor(path))
		for _, tpl := range baseChecklist {
			assert.True(t, got[tpl.Key], "path %q missing base item %q", path, tpl.Key)
		}
	}
}

func TestChecklistTemplatesArePathSpecific(t *testing.T) {
	student := keys(checklistFor(models.PathStudent))
	entrepreneur := keys(checklistFor(models.PathEntrepreneur))

	assert.True(t, student["enroll-university"])
	assert.False(t, student["register-business"])
	assert.True(t, entrepreneur["register-business"])
	assert.False(t, entrepreneur["enroll-university"])
}

func TestChecklistTemplateKeysUnique(t *testing.T) {
	for path, extra := range pathChecklists {
		seen := map[string]bool{}
		for _, tpl := range append(append([]checklistTemplate{}, baseChecklist...), extra...) {
			assert.False(t, seen[tpl.Key], "path %q repeats key %q", path, tpl.Key)
			seen[tpl.Key] = true
		}
	}
}

func TestUnknownPathFallsBackToBaseSet(t *testing.T) {
	assert.Len(t, checklistFor("ASTRONAUT"), len(baseChecklist))
}
