package storage

import (
	"strings"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	id := ulid.Make()

	assert.Equal(t, "minutes/abc/"+id.String()+".json", ObjectName("abc", id))
	assert.True(t, strings.HasPrefix(ObjectName("", id), "minutes/anonymous/"))
}

func TestObjectName_Ordered(t *testing.T) {
	first := ObjectName("s", ulid.Make())
	second := ObjectName("s", ulid.Make())
	assert.Less(t, first, second)
}
