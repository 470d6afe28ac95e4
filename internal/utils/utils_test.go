package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(target string) *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestParseIDParam(t *testing.T) {
	c := testContext("/")
	c.Params = gin.Params{{Key: "id", Value: "12"}, {Key: "bad", Value: "0"}, {Key: "neg", Value: "-3"}}

	id, err := ParseIDParam(c, "id")
	require.NoError(t, err)
	assert.EqualValues(t, 12, id)

	_, err = ParseIDParam(c, "bad")
	assert.Error(t, err)
	_, err = ParseIDParam(c, "neg")
	assert.Error(t, err)
}

func TestOptionalIDQuery(t *testing.T) {
	c := testContext("/?categoryId=3&assignedToId=x&createdById=")

	id, err := OptionalIDQuery(c, "categoryId")
	require.NoError(t, err)
	require.NotNil(t, id)
	assert.EqualValues(t, 3, *id)

	_, err = OptionalIDQuery(c, "assignedToId")
	assert.Error(t, err)

	id, err = OptionalIDQuery(c, "createdById")
	require.NoError(t, err)
	assert.Nil(t, id)
}

func TestQueryValues(t *testing.T) {
	assert.Equal(t, []string{"open"}, QueryValues(testContext("/?status=open"), "status"))
	assert.Equal(t, []string{"open", "closed"}, QueryValues(testContext("/?status=open&status=closed"), "status"))
	assert.Equal(t, []string{"high"}, QueryValues(testContext("/?priority[]=high"), "priority"))
	assert.Empty(t, QueryValues(testContext("/?status="), "status"))
}

func TestSanitizeText(t *testing.T) {
	assert.Equal(t, "I've tried clearing my cache", SanitizeText("  I've tried clearing my cache "))
	assert.Equal(t, "hello <b>world</b>", SanitizeText(`hello <b>world</b><script>alert(1)</script>`))
	assert.NotContains(t, SanitizeText(`<a href="javascript:alert(1)">x</a>`), "javascript")

	// comparisons and entities in plain text are not markup
	assert.Equal(t, "Fails when retries < 3 & timeout", SanitizeText("Fails when retries < 3 & timeout"))
	assert.Equal(t, `Tom's "x" <5`, SanitizeText(`Tom's "x" <5`))
	assert.Equal(t, "limit <= 10 && count >= 2", SanitizeText("limit <= 10 && count >= 2"))

	assert.Equal(t, "", SanitizeText("<script>x</script>"))
	assert.Equal(t, "", SanitizeText("<!-- hidden -->"))
}
