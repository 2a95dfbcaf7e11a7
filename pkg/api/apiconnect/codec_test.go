package apiconnect

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/mmynk/duoledger/pkg/api"
)

func TestCodec(t *testing.T) {
	c := Codec{}
	assert.Equal(t, "json", c.Name())

	body, err := c.Marshal(&api.GetBalanceRequest{ProjectID: "p1"})
	assert.NoError(t, err)
	assert.Equal(t, `{"projectId":"p1"}`, string(body))

	var req api.GetBalanceRequest
	assert.NoError(t, c.Unmarshal([]byte(`{"projectId":"p2","cutoff":"2024-05-01"}`), &req))
	assert.Equal(t, api.GetBalanceRequest{ProjectID: "p2", Cutoff: "2024-05-01"}, req)

	var empty api.ListProjectsRequest
	assert.NoError(t, c.Unmarshal(nil, &empty))
}
