package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"group-service/internal/mocks"
	"group-service/internal/models"
	"group-service/internal/repositories"
	"group-service/internal/services"
)

func setupMembershipRouter(groupRepo *mocks.GroupRepositoryMock, membershipRepo *mocks.MembershipRepositoryMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewMembershipHandler(services.NewMembershipService(groupRepo, membershipRepo), nil)
	r.POST("/groups/:group_id/join", handler.Join)
	r.POST("/groups/:group_id/leave", handler.Leave)
	return r
}

func TestJoinSuccess(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	router := setupMembershipRouter(groupRepo, membershipRepo)

	groupRepo.On("GroupExists", mock.Anything, 4).Return(true, nil).Once()
	membershipRepo.On("AddMember", mock.Anything, 4, 2).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/4/join", bytes.NewBufferString(`{"user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"group_id":4,"user_id":2,"status":"joined"}`, rec.Body.String())
	groupRepo.AssertExpectations(t)
	membershipRepo.AssertExpectations(t)
}

func TestJoinUnknownGroup(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	router := setupMembershipRouter(groupRepo, membershipRepo)

	groupRepo.On("GroupExists", mock.Anything, 4).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/4/join", bytes.NewBufferString(`{"user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"status":"error","message":"Invalid group ID"}`, rec.Body.String())
	membershipRepo.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestJoinMissingUser(t *testing.T) {
	router := setupMembershipRouter(new(mocks.GroupRepositoryMock), new(mocks.MembershipRepositoryMock))

	req := httptest.NewRequest(http.MethodPost, "/groups/4/join", bytes.NewBufferString(`{}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"status":"error","message":"User ID and Group ID are required"}`, rec.Body.String())
}

func TestJoinTwiceFails(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	router := setupMembershipRouter(groupRepo, membershipRepo)

	groupRepo.On("GroupExists", mock.Anything, 4).Return(true, nil).Once()
	membershipRepo.On("AddMember", mock.Anything, 4, 2).Return(repositories.ErrAlreadyMember).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/4/join", bytes.NewBufferString(`{"user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"status":"error","message":"User is already a member of this group"}`, rec.Body.String())
	membershipRepo.AssertExpectations(t)
}

func TestLeaveRegularMember(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	router := setupMembershipRouter(groupRepo, membershipRepo)

	groupRepo.On("GetGroup", mock.Anything, 4).Return(models.Group{ID: 4, Name: "alpha", Admin: 1}, nil).Once()
	membershipRepo.On("IsMember", mock.Anything, 4, 2).Return(true, nil).Once()
	membershipRepo.On("RemoveMember", mock.Anything, 4, 2).Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/4/leave", bytes.NewBufferString(`{"user_id":2}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"left"}`, rec.Body.String())
	membershipRepo.AssertExpectations(t)
	membershipRepo.AssertNotCalled(t, "RemoveAdminMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaveAdminTransfersRole(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	router := setupMembershipRouter(groupRepo, membershipRepo)

	groupRepo.On("GetGroup", mock.Anything, 4).Return(models.Group{ID: 4, Name: "alpha", Admin: 1}, nil).Once()
	membershipRepo.On("IsMember", mock.Anything, 4, 1).Return(true, nil).Once()
	membershipRepo.On("RemoveAdminMember", mock.Anything, 4, 1).
		Return(repositories.LeaveResult{AdminChanged: true, NewAdminID: 2}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/4/leave", bytes.NewBufferString(`{"user_id":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"left"}`, rec.Body.String())
	membershipRepo.AssertExpectations(t)
	membershipRepo.AssertNotCalled(t, "RemoveMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestLeaveLastMemberDeletesGroup(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	router := setupMembershipRouter(groupRepo, membershipRepo)

	groupRepo.On("GetGroup", mock.Anything, 4).Return(models.Group{ID: 4, Name: "alpha", Admin: 1}, nil).Once()
	membershipRepo.On("IsMember", mock.Anything, 4, 1).Return(true, nil).Once()
	membershipRepo.On("RemoveAdminMember", mock.Anything, 4, 1).
		Return(repositories.LeaveResult{GroupDeleted: true}, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/4/leave", bytes.NewBufferString(`{"user_id":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"left"}`, rec.Body.String())
	membershipRepo.AssertExpectations(t)
}

func TestLeaveNotMember(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	router := setupMembershipRouter(groupRepo, membershipRepo)

	groupRepo.On("GetGroup", mock.Anything, 4).Return(models.Group{ID: 4, Name: "alpha", Admin: 1}, nil).Once()
	membershipRepo.On("IsMember", mock.Anything, 4, 9).Return(false, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/4/leave", bytes.NewBufferString(`{"user_id":9}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"status":"error","message":"You are not a member of this group"}`, rec.Body.String())
}

func TestLeaveUnknownGroup(t *testing.T) {
	groupRepo := new(mocks.GroupRepositoryMock)
	membershipRepo := new(mocks.MembershipRepositoryMock)
	router := setupMembershipRouter(groupRepo, membershipRepo)

	groupRepo.On("GetGroup", mock.Anything, 4).Return(models.Group{}, repositories.ErrGroupNotFound).Once()

	req := httptest.NewRequest(http.MethodPost, "/groups/4/leave", bytes.NewBufferString(`{"user_id":1}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t, `{"status":"error","message":"Invalid group ID"}`, rec.Body.String())
}
