package transfer

import (
	"testing"

	"github.com/maheshrc27/community-api/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestValidatePostCreation(t *testing.T) {
	assert.NoError(t, Validate(&PostCreation{Title: "Hello", Content: "World"}))
	assert.NoError(t, Validate(&PostCreation{Title: "Hello", Content: "World", Status: models.PostStatusPublished}))

	err := Validate(&PostCreation{Content: "World"})
	assert.EqualError(t, err, "title failed on required")

	err = Validate(&PostCreation{Title: "Hello", Content: "World", Status: models.PostStatusRejected})
	assert.EqualError(t, err, "status failed on oneof")
}

func TestValidatePostUpdate(t *testing.T) {
	empty := ""
	assert.NoError(t, Validate(&PostUpdate{}))
	assert.Error(t, Validate(&PostUpdate{Title: &empty}))
	assert.Error(t, Validate(&PostUpdate{Status: "archived"}))
}

func TestValidateAnnouncementAudience(t *testing.T) {
	assert.NoError(t, Validate(&AnnouncementCreation{Title: "t", Body: "b", Audience: []models.Role{models.RoleMember}}))
	assert.Error(t, Validate(&AnnouncementCreation{Title: "t", Body: "b", Audience: []models.Role{"guest"}}))
}
