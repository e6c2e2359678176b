package learning

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(summaries []Summary) []string {
	out := make([]string, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, s.ID)
	}
	return out
}

func TestListFilters(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	cases := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"no filter", Filter{}, []string{"module-1", "module-2", "module-3"}},
		{"all category", Filter{Category: CategoryAll}, []string{"module-1", "module-2", "module-3"}},
		{"category", Filter{Category: CategoryAdvanced}, []string{"module-3"}},
		{"title search ignores case", Filter{Search: "DIGITAL"}, []string{"module-2"}},
		{"description search", Filter{Search: "misinformation"}, []string{"module-3"}},
		{"topic search", Filter{Search: "critical thinking"}, []string{"module-1", "module-2"}},
		{"search and category", Filter{Search: "fact", Category: CategoryFoundations}, []string{}},
		{"no match", Filter{Search: "zzz"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.List(ctx, uuid.Nil, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, ids(got))
		})
	}
}

func TestListRejectsUnknownCategory(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.List(context.Background(), uuid.Nil, Filter{Category: "cooking"})
	assert.ErrorIs(t, err, ErrInvalidCategory)
}

func TestTopicsFirstSeenOrder(t *testing.T) {
	svc, _ := newTestService()
	assert.Equal(t, []string{"Media Basics", "Critical Thinking", "Online Safety", "Fact Checking"}, svc.Topics())
}

func TestFeatured(t *testing.T) {
	svc, _ := newTestService()
	featured := svc.Featured()
	require.Len(t, featured, 2)
	assert.Equal(t, "module-1", featured[0].ID)
	assert.Equal(t, "module-2", featured[1].ID)
}

func TestCompleteContentComputesPercent(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	user := uuid.New()

	p, err := svc.CompleteContent(ctx, user, "module-1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 33, p.Percent)

	p, err = svc.CompleteContent(ctx, user, "module-1", "c1")
	require.NoError(t, err)
	assert.Equal(t, 33, p.Percent)
	assert.Equal(t, []string{"c1"}, p.CompletedContents)

	p, err = svc.CompleteContent(ctx, user, "module-1", "c2")
	require.NoError(t, err)
	assert.Equal(t, 66, p.Percent)

	p, err = svc.CompleteContent(ctx, user, "module-1", "c3")
	require.NoError(t, err)
	assert.Equal(t, 100, p.Percent)
}

func TestCompleteContentUnknown(t *testing.T) {
	svc, _ := newTestService()
	_, err := svc.CompleteContent(context.Background(), uuid.New(), "module-9", "c1")
	assert.ErrorIs(t, err, ErrModuleNotFound)

	_, err = svc.CompleteContent(context.Background(), uuid.New(), "module-1", "c9")
	assert.ErrorIs(t, err, ErrContentNotFound)
}

func TestProgressNeverDecreases(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	user := uuid.New()

	p, err := svc.UpdateProgress(ctx, user, "module-2", 80)
	require.NoError(t, err)
	assert.Equal(t, 80, p.Percent)

	p, err = svc.UpdateProgress(ctx, user, "module-2", 20)
	require.NoError(t, err)
	assert.Equal(t, 80, p.Percent)

	p, err = svc.CompleteContent(ctx, user, "module-2", "c1")
	require.NoError(t, err)
	assert.Equal(t, 80, p.Percent)
	assert.Equal(t, []string{"c1"}, p.CompletedContents)
}

func TestUpdateProgressValidation(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.UpdateProgress(ctx, uuid.New(), "module-1", 101)
	assert.ErrorIs(t, err, ErrInvalidProgress)
	_, err = svc.UpdateProgress(ctx, uuid.New(), "module-1", -1)
	assert.ErrorIs(t, err, ErrInvalidProgress)
	_, err = svc.UpdateProgress(ctx, uuid.New(), "nope", 10)
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestListAndGetOverlayProgress(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.CompleteContent(ctx, user, "module-2", "c2")
	require.NoError(t, err)

	list, err := svc.List(ctx, user, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 0, list[0].Progress)
	assert.Equal(t, 50, list[1].Progress)

	anon, err := svc.List(ctx, uuid.Nil, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 0, anon[1].Progress)

	detail, err := svc.Get(ctx, user, "module-2")
	require.NoError(t, err)
	assert.Equal(t, 2, detail.ContentCount)
	assert.False(t, detail.Contents[0].Completed)
	assert.True(t, detail.Contents[1].Completed)

	_, err = svc.Get(ctx, user, "module-9")
	assert.ErrorIs(t, err, ErrModuleNotFound)
}

func TestContentPercent(t *testing.T) {
	assert.Equal(t, 0, ContentPercent(0, 0))
	assert.Equal(t, 33, ContentPercent(1, 3))
	assert.Equal(t, 66, ContentPercent(2, 3))
	assert.Equal(t, 100, ContentPercent(5, 3))
}
