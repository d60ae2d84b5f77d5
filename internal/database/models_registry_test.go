package database

import (
	"testing"

	modelspkg "blogicum/internal/models"

	"github.com/stretchr/testify/require"
)

func TestPersistentModels_IncludesPostAndComment(t *testing.T) {
	var havePost, haveComment bool
	for _, model := range PersistentModels() {
		switch model.(type) {
		case *modelspkg.Post:
			havePost = true
		case *modelspkg.Comment:
			haveComment = true
		}
	}
	require.True(t, havePost, "PersistentModels should include Post")
	require.True(t, haveComment, "PersistentModels should include Comment")
}
