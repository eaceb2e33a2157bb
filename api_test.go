package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/adelelawady/stacktogether/constants"
	"github.com/adelelawady/stacktogether/models"
	"github.com/adelelawady/stacktogether/routes"
	"github.com/adelelawady/stacktogether/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB

	admin  models.Profile
	owner  models.Profile
	member models.Profile
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.Skill{},
		&models.UserSkill{},
		&models.Category{},
		&models.Bookmark{},
		&models.Endorsement{},
		&models.Project{},
		&models.ProjectSkill{},
		&models.ProjectMember{},
		&models.ProjectJoinRequest{},
		&models.TaskList{},
		&models.Task{},
		&models.Comment{},
		&models.CommentReaction{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	router := routes.SetupRouter(db)

	admin := models.Profile{Email: "admin@example.com", FullName: "Admin", Role: constants.RoleAdmin}
	owner := models.Profile{Email: "owner@example.com", FullName: "Owner", Role: constants.RoleUser}
	member := models.Profile{Email: "member@example.com", FullName: "Member", Role: constants.RoleUser}

	for _, p := range []*models.Profile{&admin, &owner, &member} {
		h, err := utils.HashPassword("pass12345")
		if err != nil {
			t.Fatalf("hash password: %v", err)
		}
		p.Password = h
		if err := db.Create(p).Error; err != nil {
			t.Fatalf("seed profile %s: %v", p.Email, err)
		}
	}

	return &testEnv{
		router: router,
		db:     db,
		admin:  admin,
		owner:  owner,
		member: member,
	}
}

func doRequest(t *testing.T, r http.Handler, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearerFor(t *testing.T, p models.Profile) map[string]string {
	t.Helper()
	tok, err := utils.GenerateJWT(p)
	if err != nil {
		t.Fatalf("generate jwt: %v", err)
	}
	return map[string]string{"Authorization": "Bearer " + tok}
}

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal response: %v body=%s", err, w.Body.String())
	}
	return out
}

func createProject(t *testing.T, env *testEnv, owner models.Profile) models.Project {
	t.Helper()
	body := map[string]any{
		"name":        "Board Project",
		"description": "d",
		"status":      "active",
		"is_public":   true,
	}
	w := doRequest(t, env.router, http.MethodPost, "/projects", body, bearerFor(t, owner))
	if w.Code != http.StatusOK {
		t.Fatalf("create project status=%d body=%s", w.Code, w.Body.String())
	}
	return decodeJSON[models.Project](t, w)
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	env := setupTestEnv(t)

	regBody := map[string]any{
		"email":     "new@example.com",
		"password":  "pass12345",
		"full_name": "New User",
	}
	w := doRequest(t, env.router, http.MethodPost, "/register", regBody, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("register status=%d body=%s", w.Code, w.Body.String())
	}

	loginBody := map[string]any{"email": "new@example.com", "password": "pass12345"}
	w = doRequest(t, env.router, http.MethodPost, "/login", loginBody, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d body=%s", w.Code, w.Body.String())
	}

	resp := decodeJSON[map[string]any](t, w)
	if resp["token"] == nil || resp["token"] == "" {
		t.Fatalf("expected token in response: %v", resp)
	}

	loginBody["password"] = "wrong"
	w = doRequest(t, env.router, http.MethodPost, "/login", loginBody, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("bad login expected 401 got=%d", w.Code)
	}
}

func TestProjects_CreateAddsOwnerMembership(t *testing.T) {
	env := setupTestEnv(t)

	project := createProject(t, env, env.owner)

	var member models.ProjectMember
	if err := env.db.
		Where("project_id = ? AND profile_id = ?", project.ID, env.owner.ID).
		First(&member).Error; err != nil {
		t.Fatalf("owner membership not created: %v", err)
	}
	if member.Role != constants.ProjectRoleOwner || member.Status != constants.MemberStatusApproved {
		t.Fatalf("unexpected owner membership role=%s status=%s", member.Role, member.Status)
	}
}

func TestProjects_LastOwnerCannotBeDemoted(t *testing.T) {
	env := setupTestEnv(t)
	project := createProject(t, env, env.owner)

	var member models.ProjectMember
	if err := env.db.
		Where("project_id = ? AND profile_id = ?", project.ID, env.owner.ID).
		First(&member).Error; err != nil {
		t.Fatalf("load owner membership: %v", err)
	}

	body := map[string]any{"role": "member"}
	w := doRequest(t, env.router, http.MethodPut, "/members/"+member.ID, body, bearerFor(t, env.owner))
	if w.Code != http.StatusConflict {
		t.Fatalf("demote last owner expected 409 got=%d body=%s", w.Code, w.Body.String())
	}
}

func TestJoinRequests_ApprovalCreatesMembership(t *testing.T) {
	env := setupTestEnv(t)
	project := createProject(t, env, env.owner)

	w := doRequest(t, env.router, http.MethodPost,
		"/projects/"+project.ID+"/join-requests",
		map[string]any{"message": "let me in"},
		bearerFor(t, env.member))
	if w.Code != http.StatusOK {
		t.Fatalf("join request status=%d body=%s", w.Code, w.Body.String())
	}
	request := decodeJSON[models.ProjectJoinRequest](t, w)

	// A duplicate pending request is rejected.
	w = doRequest(t, env.router, http.MethodPost,
		"/projects/"+project.ID+"/join-requests", nil, bearerFor(t, env.member))
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate join request expected 409 got=%d", w.Code)
	}

	// Non-managers cannot resolve.
	w = doRequest(t, env.router, http.MethodPut,
		"/join-requests/"+request.ID,
		map[string]any{"status": "approved"},
		bearerFor(t, env.member))
	if w.Code != http.StatusForbidden {
		t.Fatalf("resolve by requester expected 403 got=%d", w.Code)
	}

	w = doRequest(t, env.router, http.MethodPut,
		"/join-requests/"+request.ID,
		map[string]any{"status": "approved"},
		bearerFor(t, env.owner))
	if w.Code != http.StatusOK {
		t.Fatalf("resolve status=%d body=%s", w.Code, w.Body.String())
	}

	var member models.ProjectMember
	if err := env.db.
		Where("project_id = ? AND profile_id = ?", project.ID, env.member.ID).
		First(&member).Error; err != nil {
		t.Fatalf("approved membership not created: %v", err)
	}
	if member.Status != constants.MemberStatusApproved {
		t.Fatalf("expected approved membership, got %s", member.Status)
	}
}

func TestProjects_SkillTags(t *testing.T) {
	env := setupTestEnv(t)
	project := createProject(t, env, env.owner)

	w := doRequest(t, env.router, http.MethodPost, "/skills",
		map[string]any{"name": "Go", "category": "backend"}, bearerFor(t, env.admin))
	if w.Code != http.StatusOK {
		t.Fatalf("create skill status=%d body=%s", w.Code, w.Body.String())
	}
	skill := decodeJSON[models.Skill](t, w)

	// Non-managers cannot tag the project.
	w = doRequest(t, env.router, http.MethodPost, "/projects/"+project.ID+"/skills",
		map[string]any{"skill_id": skill.ID}, bearerFor(t, env.member))
	if w.Code != http.StatusForbidden {
		t.Fatalf("tag by non-manager expected 403 got=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodPost, "/projects/"+project.ID+"/skills",
		map[string]any{"skill_id": skill.ID}, bearerFor(t, env.owner))
	if w.Code != http.StatusOK {
		t.Fatalf("tag project status=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodPost, "/projects/"+project.ID+"/skills",
		map[string]any{"skill_id": skill.ID}, bearerFor(t, env.owner))
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate tag expected 409 got=%d", w.Code)
	}

	// The tag comes back on the project read.
	w = doRequest(t, env.router, http.MethodGet, "/projects/"+project.ID, nil, bearerFor(t, env.owner))
	loaded := decodeJSON[models.Project](t, w)
	if len(loaded.Skills) != 1 || loaded.Skills[0].Skill.Name != "Go" {
		t.Fatalf("expected Go skill on project, body=%s", w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodDelete,
		"/projects/"+project.ID+"/skills/"+skill.ID, nil, bearerFor(t, env.owner))
	if w.Code != http.StatusOK {
		t.Fatalf("untag status=%d body=%s", w.Code, w.Body.String())
	}
	w = doRequest(t, env.router, http.MethodDelete,
		"/projects/"+project.ID+"/skills/"+skill.ID, nil, bearerFor(t, env.owner))
	if w.Code != http.StatusNotFound {
		t.Fatalf("untag twice expected 404 got=%d", w.Code)
	}
}

func TestProjects_MemberListHonorsVisibility(t *testing.T) {
	env := setupTestEnv(t)

	body := map[string]any{"name": "Hidden", "is_public": false}
	w := doRequest(t, env.router, http.MethodPost, "/projects", body, bearerFor(t, env.owner))
	if w.Code != http.StatusOK {
		t.Fatalf("create project status=%d body=%s", w.Code, w.Body.String())
	}
	project := decodeJSON[models.Project](t, w)

	w = doRequest(t, env.router, http.MethodGet,
		"/projects/"+project.ID+"/members", nil, bearerFor(t, env.member))
	if w.Code != http.StatusForbidden {
		t.Fatalf("member list on private project expected 403 got=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodGet,
		"/projects/"+project.ID+"/members", nil, bearerFor(t, env.owner))
	if w.Code != http.StatusOK {
		t.Fatalf("member list by owner status=%d body=%s", w.Code, w.Body.String())
	}
	members := decodeJSON[[]models.ProjectMember](t, w)
	if len(members) != 1 {
		t.Fatalf("expected the owner membership, got %d", len(members))
	}

	w = doRequest(t, env.router, http.MethodGet,
		"/projects/"+uuid.NewString()+"/members", nil, bearerFor(t, env.owner))
	if w.Code != http.StatusNotFound {
		t.Fatalf("member list on missing project expected 404 got=%d", w.Code)
	}
}

func TestBoard_DefaultListsAndTaskFlow(t *testing.T) {
	env := setupTestEnv(t)
	project := createProject(t, env, env.owner)
	ownerAuth := bearerFor(t, env.owner)

	w := doRequest(t, env.router, http.MethodGet, "/projects/"+project.ID+"/board", nil, ownerAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("board status=%d body=%s", w.Code, w.Body.String())
	}
	lists := decodeJSON[[]models.TaskList](t, w)
	if len(lists) != 4 {
		t.Fatalf("expected 4 default lists got %d", len(lists))
	}
	wantNames := []string{"To Do", "In Progress", "Review", "Done"}
	for i, list := range lists {
		if list.Name != wantNames[i] || list.Position != i {
			t.Fatalf("list %d = %q pos=%d, want %q pos=%d", i, list.Name, list.Position, wantNames[i], i)
		}
	}

	// Loading again must not duplicate defaults.
	w = doRequest(t, env.router, http.MethodGet, "/projects/"+project.ID+"/board", nil, ownerAuth)
	lists = decodeJSON[[]models.TaskList](t, w)
	if len(lists) != 4 {
		t.Fatalf("second load expected 4 lists got %d", len(lists))
	}

	todo := lists[0]
	for _, title := range []string{"A", "B", "C"} {
		w = doRequest(t, env.router, http.MethodPost, "/lists/"+todo.ID+"/tasks",
			map[string]any{"title": title}, ownerAuth)
		if w.Code != http.StatusOK {
			t.Fatalf("create task %s status=%d body=%s", title, w.Code, w.Body.String())
		}
	}

	// [A,B,C] -> [C,A,B]
	w = doRequest(t, env.router, http.MethodPost, "/lists/"+todo.ID+"/reorder",
		map[string]any{"from_index": 2, "to_index": 0}, ownerAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("reorder status=%d body=%s", w.Code, w.Body.String())
	}

	var tasks []models.Task
	if err := env.db.Where("list_id = ?", todo.ID).Order("position asc").Find(&tasks).Error; err != nil {
		t.Fatalf("load tasks: %v", err)
	}
	gotTitles := []string{tasks[0].Title, tasks[1].Title, tasks[2].Title}
	if gotTitles[0] != "C" || gotTitles[1] != "A" || gotTitles[2] != "B" {
		t.Fatalf("expected [C A B] got %v", gotTitles)
	}
	for i, task := range tasks {
		if task.Position != i {
			t.Fatalf("position not dense: %s at %d", task.Title, task.Position)
		}
	}

	// Move the middle task to the Done list.
	done := lists[3]
	w = doRequest(t, env.router, http.MethodPost, "/tasks/"+tasks[1].ID+"/move",
		map[string]any{"dest_list_id": done.ID, "dest_index": 0}, ownerAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("move status=%d body=%s", w.Code, w.Body.String())
	}

	var sourceCount, destCount int64
	env.db.Model(&models.Task{}).Where("list_id = ?", todo.ID).Count(&sourceCount)
	env.db.Model(&models.Task{}).Where("list_id = ?", done.ID).Count(&destCount)
	if sourceCount != 2 || destCount != 1 {
		t.Fatalf("expected lengths 2 and 1 after move, got %d and %d", sourceCount, destCount)
	}
}

func TestBoard_NonMemberCannotMutate(t *testing.T) {
	env := setupTestEnv(t)
	project := createProject(t, env, env.owner)

	w := doRequest(t, env.router, http.MethodGet, "/projects/"+project.ID+"/board", nil, bearerFor(t, env.owner))
	lists := decodeJSON[[]models.TaskList](t, w)

	w = doRequest(t, env.router, http.MethodPost, "/lists/"+lists[0].ID+"/tasks",
		map[string]any{"title": "nope"}, bearerFor(t, env.member))
	if w.Code != http.StatusForbidden {
		t.Fatalf("non-member task create expected 403 got=%d body=%s", w.Code, w.Body.String())
	}
}

func TestComments_DepthLimitAndReactions(t *testing.T) {
	env := setupTestEnv(t)
	project := createProject(t, env, env.owner)
	ownerAuth := bearerFor(t, env.owner)

	w := doRequest(t, env.router, http.MethodGet, "/projects/"+project.ID+"/board", nil, ownerAuth)
	lists := decodeJSON[[]models.TaskList](t, w)

	w = doRequest(t, env.router, http.MethodPost, "/lists/"+lists[0].ID+"/tasks",
		map[string]any{"title": "T"}, ownerAuth)
	task := decodeJSON[models.Task](t, w)

	post := func(content string, parentID *string) *httptest.ResponseRecorder {
		body := map[string]any{"content": content}
		if parentID != nil {
			body["parent_id"] = *parentID
		}
		return doRequest(t, env.router, http.MethodPost, "/tasks/"+task.ID+"/comments", body, ownerAuth)
	}

	w = post("root", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("post root status=%d body=%s", w.Code, w.Body.String())
	}
	root := decodeJSON[models.Comment](t, w)

	w = post("reply", &root.ID)
	reply := decodeJSON[models.Comment](t, w)

	w = post("nested", &reply.ID)
	nested := decodeJSON[models.Comment](t, w)

	w = post("too deep", &nested.ID)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("deep reply expected 422 got=%d body=%s", w.Code, w.Body.String())
	}

	// Toggle on, toggle off.
	react := func() *httptest.ResponseRecorder {
		return doRequest(t, env.router, http.MethodPost, "/comments/"+root.ID+"/reactions",
			map[string]any{"type": "like"}, ownerAuth)
	}
	w = react()
	if resp := decodeJSON[map[string]any](t, w); resp["added"] != true {
		t.Fatalf("first toggle expected added=true body=%s", w.Body.String())
	}
	w = react()
	if resp := decodeJSON[map[string]any](t, w); resp["added"] != false {
		t.Fatalf("second toggle expected added=false body=%s", w.Body.String())
	}

	var count int64
	env.db.Model(&models.CommentReaction{}).Where("comment_id = ?", root.ID).Count(&count)
	if count != 0 {
		t.Fatalf("expected no reactions after double toggle, got %d", count)
	}

	// The comment tree comes back nested.
	w = doRequest(t, env.router, http.MethodGet, "/tasks/"+task.ID+"/comments", nil, ownerAuth)
	tree := decodeJSON[[]models.Comment](t, w)
	if len(tree) != 1 || len(tree[0].Replies) != 1 || len(tree[0].Replies[0].Replies) != 1 {
		t.Fatalf("unexpected tree shape body=%s", w.Body.String())
	}
}

func TestDirectory_AdminOnlyWrites(t *testing.T) {
	env := setupTestEnv(t)

	body := map[string]any{"name": "Go", "category": "backend"}

	w := doRequest(t, env.router, http.MethodPost, "/skills", body, bearerFor(t, env.member))
	if w.Code != http.StatusForbidden {
		t.Fatalf("skill create by user expected 403 got=%d", w.Code)
	}

	w = doRequest(t, env.router, http.MethodPost, "/skills", body, bearerFor(t, env.admin))
	if w.Code != http.StatusOK {
		t.Fatalf("skill create by admin status=%d body=%s", w.Code, w.Body.String())
	}
	skill := decodeJSON[models.Skill](t, w)

	// Member attaches the skill and shows up under a skill filter.
	w = doRequest(t, env.router, http.MethodPost, "/me/skills",
		map[string]any{"skill_id": skill.ID}, bearerFor(t, env.member))
	if w.Code != http.StatusOK {
		t.Fatalf("add skill status=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodGet, "/profiles?skill="+skill.ID, nil, bearerFor(t, env.member))
	profiles := decodeJSON[[]models.Profile](t, w)
	if len(profiles) != 1 || profiles[0].ID != env.member.ID {
		t.Fatalf("skill filter expected only member, body=%s", w.Body.String())
	}
}

func TestDirectory_CreateDistinguishesConflictFromFailure(t *testing.T) {
	env := setupTestEnv(t)
	adminAuth := bearerFor(t, env.admin)

	body := map[string]any{"name": "Rust", "category": "backend"}
	w := doRequest(t, env.router, http.MethodPost, "/skills", body, adminAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("create skill status=%d body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, env.router, http.MethodPost, "/skills", body, adminAuth)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate skill expected 409 got=%d body=%s", w.Code, w.Body.String())
	}

	catBody := map[string]any{"name": "Tooling"}
	w = doRequest(t, env.router, http.MethodPost, "/categories", catBody, adminAuth)
	if w.Code != http.StatusOK {
		t.Fatalf("create category status=%d body=%s", w.Code, w.Body.String())
	}
	w = doRequest(t, env.router, http.MethodPost, "/categories", catBody, adminAuth)
	if w.Code != http.StatusConflict {
		t.Fatalf("duplicate category expected 409 got=%d", w.Code)
	}

	// A genuine database failure must surface as 500, not 409.
	if err := env.db.Migrator().DropTable(&models.Skill{}); err != nil {
		t.Fatalf("drop table: %v", err)
	}
	w = doRequest(t, env.router, http.MethodPost, "/skills",
		map[string]any{"name": "Zig"}, adminAuth)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("broken table expected 500 got=%d body=%s", w.Code, w.Body.String())
	}
}

func TestProfiles_SearchFilter(t *testing.T) {
	env := setupTestEnv(t)

	w := doRequest(t, env.router, http.MethodGet, "/profiles?search=Own", nil, bearerFor(t, env.member))
	if w.Code != http.StatusOK {
		t.Fatalf("profile search status=%d body=%s", w.Code, w.Body.String())
	}
	profiles := decodeJSON[[]models.Profile](t, w)
	if len(profiles) != 1 || profiles[0].FullName != "Owner" {
		t.Fatalf("search expected Owner, body=%s", w.Body.String())
	}
}
