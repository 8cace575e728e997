package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/alexanderramin/speaktrainer/internal/domain"
	"github.com/alexanderramin/speaktrainer/internal/repository"
	"github.com/alexanderramin/speaktrainer/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeed() domain.Dataset {
	return domain.Dataset{
		domain.ExamCELPIP: {
			{ID: "c1", Type: domain.ExamCELPIP, Skill: domain.SkillSpeaking, Title: "Seed c1"},
			{ID: "c2", Type: domain.ExamCELPIP, Skill: domain.SkillWriting, Title: "Seed c2"},
		},
		domain.ExamCambridge: {},
		domain.ExamIELTS:     {{ID: "i1", Type: domain.ExamIELTS, Skill: domain.SkillSpeaking}},
	}
}

func TestKey_Versioned(t *testing.T) {
	assert.Equal(t, "speaktrainer:data:v3", Key(CurrentVersion))
	assert.NotEqual(t, Key(2), Key(3))
}

func TestStore_LoadWithoutRecordReturnsSeed(t *testing.T) {
	store := NewStore(repository.NewMemoryKVStore(), CurrentVersion, nil)

	res := store.Load(context.Background(), testSeed())
	assert.Equal(t, SourceSeed, res.Source)
	assert.Equal(t, testSeed(), res.Dataset)
}

func TestStore_SaveThenLoadReconciles(t *testing.T) {
	kv := repository.NewSQLiteKVStore(testutil.NewTestDB(t))
	store := NewStore(kv, CurrentVersion, nil)
	ctx := context.Background()

	saved := testSeed()
	saved[domain.ExamCELPIP][0].Title = "My edit"
	saved[domain.ExamCELPIP] = append(saved[domain.ExamCELPIP],
		domain.Exercise{ID: "mine", Type: domain.ExamCELPIP, Skill: domain.SkillSpeaking})
	require.NoError(t, store.Save(ctx, saved))

	newSeed := testSeed()
	newSeed[domain.ExamCELPIP] = append(newSeed[domain.ExamCELPIP],
		domain.Exercise{ID: "c3", Type: domain.ExamCELPIP, Skill: domain.SkillReading})

	res := store.Load(ctx, newSeed)
	assert.Equal(t, SourceReconciled, res.Source)
	got := res.Dataset[domain.ExamCELPIP]
	assert.Equal(t, []string{"c1", "c2", "c3", "mine"}, idsOf(got))
	assert.Equal(t, "My edit", got[0].Title)
}

func TestStore_MalformedRecordFallsBackToSeed(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, Key(CurrentVersion), "{not json"))

	res := NewStore(kv, CurrentVersion, nil).Load(ctx, testSeed())
	assert.Equal(t, SourceFallback, res.Source)
	assert.Equal(t, testSeed(), res.Dataset)
}

func TestStore_RecordedZeroValuesSurviveLoad(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	ctx := context.Background()
	seed := testSeed()
	seed[domain.ExamCELPIP][0].TimeLimitSec = 60
	require.NoError(t, kv.Set(ctx, Key(CurrentVersion), `{"celpip":[{"id":"c1","timeLimitSec":0,"title":""}]}`))

	store := NewStore(kv, CurrentVersion, nil)
	res := store.Load(ctx, seed)
	ex, ok := res.Dataset.Find(domain.ExamCELPIP, "c1")
	require.True(t, ok)
	assert.Equal(t, 0, ex.TimeLimitSec)
	assert.Empty(t, ex.Title)

	// A save and reload keeps the cleared fields cleared.
	require.NoError(t, store.Save(ctx, res.Dataset))
	again, ok := store.Load(ctx, seed).Dataset.Find(domain.ExamCELPIP, "c1")
	require.True(t, ok)
	assert.Equal(t, 0, again.TimeLimitSec)
	assert.Empty(t, again.Title)
}

func TestStore_OldVersionIsNeverRead(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	ctx := context.Background()

	old := NewStore(kv, 2, nil)
	edited := testSeed()
	edited[domain.ExamIELTS][0].Title = "written under v2"
	require.NoError(t, old.Save(ctx, edited))

	res := NewStore(kv, 3, nil).Load(ctx, testSeed())
	assert.Equal(t, SourceSeed, res.Source)
	assert.Empty(t, res.Dataset[domain.ExamIELTS][0].Title)
}

func TestStore_MissingSkillDefaultsToSpeaking(t *testing.T) {
	kv := repository.NewMemoryKVStore()
	ctx := context.Background()
	require.NoError(t, kv.Set(ctx, Key(CurrentVersion), `{"ielts":[{"id":"legacy"}]}`))

	res := NewStore(kv, CurrentVersion, nil).Load(ctx, testSeed())
	ex, ok := res.Dataset.Find(domain.ExamIELTS, "legacy")
	require.True(t, ok)
	assert.Equal(t, domain.SkillSpeaking, ex.Skill)
	assert.Equal(t, domain.ExamIELTS, ex.Type)
}

type brokenKV struct{}

func (brokenKV) Get(context.Context, string) (string, error) { return "", errors.New("disk on fire") }
func (brokenKV) Set(context.Context, string, string) error   { return errors.New("disk on fire") }

func TestStore_ReadErrorFallsBack(t *testing.T) {
	store := NewStore(brokenKV{}, CurrentVersion, nil)

	res := store.Load(context.Background(), testSeed())
	assert.Equal(t, SourceFallback, res.Source)

	err := store.Save(context.Background(), testSeed())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "saving dataset")
}
