package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultVariants(t *testing.T) {
	ok := Ok(42)
	v, succeeded := ok.Data()
	assert.True(t, succeeded)
	assert.Equal(t, 42, v)
	assert.False(t, ok.Failed())
	assert.Empty(t, ok.Error())

	failed := Fail[int]("db down")
	_, succeeded = failed.Data()
	assert.False(t, succeeded)
	assert.True(t, failed.Failed())
	assert.False(t, failed.Precondition())
	assert.Equal(t, "db down", failed.Error())

	rejected := Reject[int]("no active session")
	assert.True(t, rejected.Failed())
	assert.True(t, rejected.Precondition())
}

func TestFailWithoutReasonStillCarriesOne(t *testing.T) {
	res := Fail[string]("")
	assert.True(t, res.Failed())
	assert.NotEmpty(t, res.Error())
}

func TestResultJSONIsMutuallyExclusive(t *testing.T) {
	body, err := json.Marshal(Ok(map[string]int{"a": 1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":{"a":1},"error":null}`, string(body))

	body, err = json.Marshal(Fail[map[string]int]("boom"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":null,"error":"boom"}`, string(body))
}

func TestMapPreservesFailureKind(t *testing.T) {
	mapped := Map(Reject[int]("no active session"), func(v int) string { return "x" })
	assert.True(t, mapped.Precondition())
	assert.Equal(t, "no active session", mapped.Error())

	doubled := Map(Ok(2), func(v int) int { return v * 2 })
	v, ok := doubled.Data()
	assert.True(t, ok)
	assert.Equal(t, 4, v)
}
