package services

import (
	"testing"
	"time"

	"github.com/adelelawady/stacktogether/constants"
	"github.com/adelelawady/stacktogether/models"

	"github.com/stretchr/testify/require"
)

func seedTaskWithProject(t *testing.T, svc *CommentService) (models.Task, models.Profile) {
	t.Helper()

	author := models.Profile{Email: "author@example.com", FullName: "Author"}
	require.NoError(t, svc.DB.Create(&author).Error)

	project := models.Project{Name: "P", OwnerID: author.ID, IsPublic: true}
	require.NoError(t, svc.DB.Create(&project).Error)

	list := models.TaskList{ProjectID: project.ID, Name: "To Do", Type: constants.ListTypeTodo}
	require.NoError(t, svc.DB.Create(&list).Error)

	task := models.Task{ListID: list.ID, Title: "T"}
	require.NoError(t, svc.DB.Create(&task).Error)
	return task, author
}

func TestPostCommentEnforcesDepthLimitAtWrite(t *testing.T) {
	db := openTestDB(t)
	svc := NewCommentService(db)
	task, author := seedTaskWithProject(t, svc)

	root, err := svc.Post(task.ID, "root", author.ID, nil)
	require.NoError(t, err)

	reply, err := svc.Post(task.ID, "reply", author.ID, &root.ID)
	require.NoError(t, err)

	nested, err := svc.Post(task.ID, "nested", author.ID, &reply.ID)
	require.NoError(t, err)

	// A reply below the deepest rendered level is rejected, not stored.
	_, err = svc.Post(task.ID, "too deep", author.ID, &nested.ID)
	require.ErrorIs(t, err, ErrDepthExceeded)

	var count int64
	require.NoError(t, db.Model(&models.Comment{}).Where("task_id = ?", task.ID).Count(&count).Error)
	require.EqualValues(t, 3, count)
}

func TestPostCommentValidatesParent(t *testing.T) {
	db := openTestDB(t)
	svc := NewCommentService(db)
	task, author := seedTaskWithProject(t, svc)

	other := models.Task{ListID: task.ListID, Title: "Other", Position: 1}
	require.NoError(t, db.Create(&other).Error)

	root, err := svc.Post(task.ID, "root", author.ID, nil)
	require.NoError(t, err)

	// Parent must belong to the same task.
	_, err = svc.Post(other.ID, "cross-task reply", author.ID, &root.ID)
	require.ErrorIs(t, err, ErrInvalidInput)

	missing := "no-such-id"
	_, err = svc.Post(task.ID, "orphan", author.ID, &missing)
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Post(task.ID, "", author.ID, nil)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestTreeForTaskNestsReplies(t *testing.T) {
	db := openTestDB(t)
	svc := NewCommentService(db)
	task, author := seedTaskWithProject(t, svc)

	root, err := svc.Post(task.ID, "root", author.ID, nil)
	require.NoError(t, err)
	reply, err := svc.Post(task.ID, "reply", author.ID, &root.ID)
	require.NoError(t, err)
	_, err = svc.Post(task.ID, "nested", author.ID, &reply.ID)
	require.NoError(t, err)
	_, err = svc.Post(task.ID, "second root", author.ID, nil)
	require.NoError(t, err)

	tree, err := svc.TreeForTask(task.ID, constants.SortOldest)
	require.NoError(t, err)
	require.Len(t, tree, 2)
	require.Equal(t, "root", tree[0].Content)
	require.Len(t, tree[0].Replies, 1)
	require.Equal(t, "reply", tree[0].Replies[0].Content)
	require.Len(t, tree[0].Replies[0].Replies, 1)
	require.Equal(t, "nested", tree[0].Replies[0].Replies[0].Content)
	require.Equal(t, "second root", tree[1].Content)
}

func TestToggleReactionIsAnInvolution(t *testing.T) {
	db := openTestDB(t)
	svc := NewCommentService(db)
	task, author := seedTaskWithProject(t, svc)

	comment, err := svc.Post(task.ID, "root", author.ID, nil)
	require.NoError(t, err)

	added, err := svc.ToggleReaction(comment.ID, author.ID, constants.ReactionLike)
	require.NoError(t, err)
	require.True(t, added)

	var count int64
	require.NoError(t, db.Model(&models.CommentReaction{}).
		Where("comment_id = ?", comment.ID).Count(&count).Error)
	require.EqualValues(t, 1, count)

	added, err = svc.ToggleReaction(comment.ID, author.ID, constants.ReactionLike)
	require.NoError(t, err)
	require.False(t, added)

	require.NoError(t, db.Model(&models.CommentReaction{}).
		Where("comment_id = ?", comment.ID).Count(&count).Error)
	require.EqualValues(t, 0, count)
}

func TestToggleReactionRejectsUnknownType(t *testing.T) {
	db := openTestDB(t)
	svc := NewCommentService(db)
	task, author := seedTaskWithProject(t, svc)

	comment, err := svc.Post(task.ID, "root", author.ID, nil)
	require.NoError(t, err)

	_, err = svc.ToggleReaction(comment.ID, author.ID, "thumbsdown")
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ToggleReaction("missing", author.ID, constants.ReactionLike)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSortCommentsByReactionCount(t *testing.T) {
	now := time.Now()
	two := commentWithReactions("two", now, 2)
	zero := commentWithReactions("zero", now.Add(time.Second), 0)
	five := commentWithReactions("five", now.Add(2*time.Second), 5)

	roots := []*models.Comment{two, zero, five}
	SortComments(roots, constants.SortMostReactions)

	require.Equal(t, []string{"five", "two", "zero"}, contents(roots))
}

func TestSortCommentsByAge(t *testing.T) {
	now := time.Now()
	oldest := commentWithReactions("oldest", now, 0)
	middle := commentWithReactions("middle", now.Add(time.Second), 0)
	newest := commentWithReactions("newest", now.Add(2*time.Second), 0)

	roots := []*models.Comment{middle, newest, oldest}

	SortComments(roots, constants.SortNewest)
	require.Equal(t, []string{"newest", "middle", "oldest"}, contents(roots))

	SortComments(roots, constants.SortOldest)
	require.Equal(t, []string{"oldest", "middle", "newest"}, contents(roots))
}

func TestBuildTreeCapsDepth(t *testing.T) {
	now := time.Now()
	root := &models.Comment{ID: "r", Content: "root", CreatedAt: now}
	reply := &models.Comment{ID: "a", Content: "reply", ParentID: strPtr("r"), CreatedAt: now}
	nested := &models.Comment{ID: "b", Content: "nested", ParentID: strPtr("a"), CreatedAt: now}
	tooDeep := &models.Comment{ID: "c", Content: "too deep", ParentID: strPtr("b"), CreatedAt: now}

	roots := BuildTree([]*models.Comment{root, reply, nested, tooDeep}, constants.MaxCommentDepth)
	require.Len(t, roots, 1)
	require.Len(t, roots[0].Replies, 1)
	require.Len(t, roots[0].Replies[0].Replies, 1)
	require.Empty(t, roots[0].Replies[0].Replies[0].Replies)
}

func commentWithReactions(content string, createdAt time.Time, reactions int) *models.Comment {
	c := &models.Comment{Content: content, CreatedAt: createdAt}
	for i := 0; i < reactions; i++ {
		c.Reactions = append(c.Reactions, models.CommentReaction{Type: constants.ReactionLike})
	}
	return c
}

func contents(roots []*models.Comment) []string {
	out := make([]string, len(roots))
	for i, c := range roots {
		out[i] = c.Content
	}
	return out
}

func strPtr(s string) *string { return &s }
