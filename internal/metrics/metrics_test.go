package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	c := New("portfolio", func() int { return 3 })
	c.ChatReplies.WithLabelValues("skills").Inc()
	c.ChatReplies.WithLabelValues("skills").Inc()
	c.BackgroundStreams.Inc()

	assert.Equal(t, 2.0, testutil.ToFloat64(c.ChatReplies.WithLabelValues("skills")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.BackgroundStreams))
	assert.Equal(t, 3.0, testutil.ToFloat64(c.ChatSessions))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), `portfolio_chat_replies_total{rule="skills"} 2`)
}

func TestCollectorsAreIndependent(t *testing.T) {
	a := New("portfolio", nil)
	b := New("portfolio", nil)
	a.PageViews.WithLabelValues("home").Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.PageViews.WithLabelValues("home")))
}
