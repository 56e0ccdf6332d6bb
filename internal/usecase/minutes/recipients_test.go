package minutes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-minutes/internal/domain/entities"
)

func TestRecipientList(t *testing.T) {
	var r RecipientList
	assert.NotNil(t, r.Items())

	added, err := r.Add(" alice@example.com ")
	require.NoError(t, err)
	assert.True(t, added)

	added, err = r.Add("ALICE@example.com")
	require.NoError(t, err)
	assert.False(t, added)

	_, err = r.Add("bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, r.Items())

	_, err = r.Add("   ")
	assert.ErrorIs(t, err, entities.ErrInvalidRecipient)

	assert.True(t, r.Remove("Alice@Example.com"))
	assert.False(t, r.Remove("carol@example.com"))
	assert.Equal(t, 1, r.Len())
}
