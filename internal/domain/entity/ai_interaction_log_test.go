package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedsHumanReview(t *testing.T) {
	assert.True(t, NeedsHumanReview("Tôi không chắc về điều này, bạn nên hỏi bác sĩ."))
	assert.True(t, NeedsHumanReview("Trả lời: "+UncertainAnswerMarker))
	assert.False(t, NeedsHumanReview("Bạn nên khám chuyên khoa Tim mạch."))
	assert.False(t, NeedsHumanReview(""))
}
