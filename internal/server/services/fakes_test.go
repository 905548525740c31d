package services

import (
	"context"

	"github.com/dmitrijs2005/wizardry/internal/server/models"
	postsrepo "github.com/dmitrijs2005/wizardry/internal/server/repositories/posts"
	"github.com/dmitrijs2005/wizardry/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/wizardry/internal/server/repositories/users"
)

// fakeRepoManager overrides the repositories of an embedded manager.
type fakeRepoManager struct {
	repomanager.RepositoryManager
	u usersrepo.Repository
	p postsrepo.Repository
}

func (m *fakeRepoManager) Users() usersrepo.Repository { return m.u }
func (m *fakeRepoManager) Posts() postsrepo.Repository { return m.p }

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	findOut *models.User
	findErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.createOut, nil
}

func (f *fakeUsersRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	return f.findOut, f.findErr
}

func (f *fakeUsersRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.findOut, f.findErr
}

func (f *fakeUsersRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	return f.findOut, f.findErr
}

type fakePostsRepo struct {
	postsrepo.Repository

	findOut *models.Post
	findErr error

	updateCalled bool
	deleteCalled bool
	listErr      error
}

func (f *fakePostsRepo) FindByID(ctx context.Context, id string) (*models.Post, error) {
	return f.findOut, f.findErr
}

func (f *fakePostsRepo) Update(ctx context.Context, id string, patch models.PostPatch) (*models.Post, error) {
	f.updateCalled = true
	return f.findOut, nil
}

func (f *fakePostsRepo) Delete(ctx context.Context, id string) error {
	f.deleteCalled = true
	return nil
}

func (f *fakePostsRepo) FindAll(ctx context.Context) ([]models.Post, error) {
	return nil, f.listErr
}
