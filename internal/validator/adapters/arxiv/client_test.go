package arxiv

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weinshel/hallucinator-sub000/internal/domain"
	"github.com/weinshel/hallucinator-sub000/internal/validator"
)

const atomFeed = `<feed><entry><id>http://arxiv.org/abs/2301.00001v2</id><title>Attention Is All You Need</title><author><name>Ashish Vaswani</name></author></entry></feed>`

func TestQuery_Hit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(atomFeed))
	}))
	t.Cleanup(srv.Close)
	baseURL = srv.URL

	c := New()
	ref := domain.Reference{Title: "Attention Is All You Need"}
	out := c.Query(context.Background(), ref, time.Now().Add(time.Second))
	require.Equal(t, validator.OutcomeHit, out.Kind)
	assert.Equal(t, "https://arxiv.org/abs/2301.00001", out.URL)
}

func TestExtractArxivID_StripsVersion(t *testing.T) {
	assert.Equal(t, "2301.00001", extractArxivID("http://arxiv.org/abs/2301.00001v2"))
	assert.Equal(t, "hep-th/9901001", extractArxivID("http://arxiv.org/abs/hep-th/9901001"))
}

func TestPreFilter(t *testing.T) {
	c := New()
	assert.True(t, c.PreFilter(domain.Reference{ArxivID: "2301.00001"}))
	assert.True(t, c.PreFilter(domain.Reference{Title: "A Neural Network for Reinforcement Learning"}))
	assert.False(t, c.PreFilter(domain.Reference{Title: "A Clinical Study of Gene Therapy Outcomes"}))
}
