package viewmodel

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	domain "gorest-users/internal/domain/user"
	apperrors "gorest-users/pkg/errors"
)

// MockService is a mock implementation of user.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) GetUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockService) AddUser(ctx context.Context, name, email string) (*domain.User, error) {
	args := m.Called(ctx, name, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockService) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func setupTestUsers(t *testing.T) (*Users, *MockService) {
	svc := new(MockService)
	return NewUsers(svc, zaptest.NewLogger(t)), svc
}

func sampleUsers() []domain.User {
	return []domain.User{
		{ID: 1, Name: "Alice", Email: "alice@example.com"},
		{ID: 2, Name: "Bob", Email: "bob@example.com"},
	}
}

func ids(users []domain.User) []int64 {
	out := make([]int64, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func TestUsers_InitialState(t *testing.T) {
	vm, _ := setupTestUsers(t)

	s := vm.State()
	assert.Empty(t, s.Users)
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
}

func TestUsers_Refresh(t *testing.T) {
	t.Run("success replaces list", func(t *testing.T) {
		vm, svc := setupTestUsers(t)
		svc.On("GetUsers", mock.Anything).Return(sampleUsers(), nil).Once()

		vm.Refresh(context.Background())
		vm.Wait()

		s := vm.State()
		assert.Equal(t, []int64{1, 2}, ids(s.Users))
		assert.False(t, s.Loading)
		assert.Empty(t, s.Error)
		svc.AssertExpectations(t)
	})

	t.Run("failure clears list and sets error", func(t *testing.T) {
		vm, svc := setupTestUsers(t)
		svc.On("GetUsers", mock.Anything).Return(sampleUsers(), nil).Once()
		svc.On("GetUsers", mock.Anything).Return(nil, apperrors.NewAPIError(500, "api error")).Once()

		vm.Refresh(context.Background())
		vm.Wait()
		vm.Refresh(context.Background())
		vm.Wait()

		s := vm.State()
		assert.Empty(t, s.Users)
		assert.False(t, s.Loading)
		assert.Equal(t, "api error: 500", s.Error)
	})

	t.Run("success clears previous error", func(t *testing.T) {
		vm, svc := setupTestUsers(t)
		svc.On("GetUsers", mock.Anything).Return(nil, apperrors.NewNetworkError(errors.New("offline"))).Once()
		svc.On("GetUsers", mock.Anything).Return(sampleUsers(), nil).Once()

		vm.Refresh(context.Background())
		vm.Wait()
		assert.Equal(t, "network error: offline", vm.State().Error)

		vm.Refresh(context.Background())
		vm.Wait()
		assert.Empty(t, vm.State().Error)
		assert.Len(t, vm.State().Users, 2)
	})

	t.Run("outlives caller cancellation", func(t *testing.T) {
		vm, svc := setupTestUsers(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		svc.On("GetUsers", mock.MatchedBy(func(ctx context.Context) bool {
			return ctx.Err() == nil
		})).Return(sampleUsers(), nil).Once()

		vm.Refresh(ctx)
		vm.Wait()

		assert.Len(t, vm.State().Users, 2)
		svc.AssertExpectations(t)
	})
}

func TestUsers_AddUser(t *testing.T) {
	t.Run("success appends user", func(t *testing.T) {
		vm, svc := setupTestUsers(t)
		svc.On("GetUsers", mock.Anything).Return(sampleUsers(), nil).Once()
		svc.On("AddUser", mock.Anything, "Carol", "carol@example.com").
			Return(&domain.User{ID: 3, Name: "Carol", Email: "carol@example.com"}, nil).Once()

		vm.Refresh(context.Background())
		vm.Wait()

		require.NoError(t, vm.AddUser(context.Background(), " Carol ", "carol@example.com"))
		vm.Wait()

		s := vm.State()
		assert.Equal(t, []int64{1, 2, 3}, ids(s.Users))
		assert.Empty(t, s.Error)
		svc.AssertExpectations(t)
	})

	t.Run("failure sets error and keeps list", func(t *testing.T) {
		vm, svc := setupTestUsers(t)
		svc.On("GetUsers", mock.Anything).Return(sampleUsers(), nil).Once()
		svc.On("AddUser", mock.Anything, "Carol", "carol@example.com").
			Return(nil, apperrors.NewAPIError(422, "creation failed")).Once()

		vm.Refresh(context.Background())
		vm.Wait()

		require.NoError(t, vm.AddUser(context.Background(), "Carol", "carol@example.com"))
		vm.Wait()

		s := vm.State()
		assert.Equal(t, []int64{1, 2}, ids(s.Users))
		assert.Equal(t, "creation failed: 422", s.Error)
		assert.False(t, s.Loading)
	})

	t.Run("invalid input never reaches the service", func(t *testing.T) {
		vm, svc := setupTestUsers(t)

		err := vm.AddUser(context.Background(), "Jo", "not-an-email")
		require.Error(t, err)

		var vErr *apperrors.ValidationError
		assert.ErrorAs(t, err, &vErr)

		vm.Wait()
		assert.Equal(t, State{}, vm.State())
		svc.AssertNotCalled(t, "AddUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUsers_DeleteUser(t *testing.T) {
	t.Run("success removes user", func(t *testing.T) {
		vm, svc := setupTestUsers(t)
		svc.On("GetUsers", mock.Anything).Return(sampleUsers(), nil).Once()
		svc.On("DeleteUser", mock.Anything, int64(1)).Return(nil).Once()

		vm.Refresh(context.Background())
		vm.Wait()
		vm.DeleteUser(context.Background(), 1)
		vm.Wait()

		s := vm.State()
		assert.Equal(t, []int64{2}, ids(s.Users))
		assert.Empty(t, s.Error)
	})

	t.Run("failure sets error and keeps list", func(t *testing.T) {
		vm, svc := setupTestUsers(t)
		svc.On("GetUsers", mock.Anything).Return(sampleUsers(), nil).Once()
		svc.On("DeleteUser", mock.Anything, int64(1)).Return(apperrors.NewAPIError(404, "delete failed")).Once()

		vm.Refresh(context.Background())
		vm.Wait()
		vm.DeleteUser(context.Background(), 1)
		vm.Wait()

		s := vm.State()
		assert.Equal(t, []int64{1, 2}, ids(s.Users))
		assert.Equal(t, "delete failed: 404", s.Error)
	})
}

func TestUsers_SnapshotsAreIsolated(t *testing.T) {
	vm, svc := setupTestUsers(t)
	svc.On("GetUsers", mock.Anything).Return(sampleUsers(), nil).Once()
	svc.On("DeleteUser", mock.Anything, int64(1)).Return(nil).Once()

	vm.Refresh(context.Background())
	vm.Wait()
	before := vm.State()

	vm.DeleteUser(context.Background(), 1)
	vm.Wait()

	assert.Equal(t, []int64{1, 2}, ids(before.Users))
	assert.Equal(t, []int64{2}, ids(vm.State().Users))
}

func TestUsers_Subscribe(t *testing.T) {
	vm, svc := setupTestUsers(t)
	svc.On("GetUsers", mock.Anything).Return(sampleUsers(), nil).Once()

	ch, unsubscribe := vm.Subscribe()

	initial := <-ch
	assert.Empty(t, initial.Users)

	vm.Refresh(context.Background())
	vm.Wait()

	latest := <-ch
	assert.Equal(t, vm.State(), latest)
	assert.False(t, latest.Loading)

	unsubscribe()
	unsubscribe()

	_, open := <-ch
	assert.False(t, open)
}

func TestUsers_ConcurrentIntents(t *testing.T) {
	vm, svc := setupTestUsers(t)
	svc.On("GetUsers", mock.Anything).Return(sampleUsers(), nil)
	svc.On("DeleteUser", mock.Anything, mock.Anything).Return(nil)

	for i := 0; i < 10; i++ {
		vm.Refresh(context.Background())
		vm.DeleteUser(context.Background(), int64(100+i))
	}
	vm.Wait()

	s := vm.State()
	assert.False(t, s.Loading)
	assert.Empty(t, s.Error)
}

func TestUsers_WaitConcurrentWithIntents(t *testing.T) {
	vm, svc := setupTestUsers(t)
	svc.On("DeleteUser", mock.Anything, int64(1)).Return(nil)

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			vm.DeleteUser(context.Background(), 1)
		}()
		go func() {
			defer wg.Done()
			vm.Wait()
		}()
	}
	wg.Wait()
	vm.Wait()

	assert.False(t, vm.State().Loading)
	svc.AssertNumberOfCalls(t, "DeleteUser", 200)
}

func TestUsers_WaitBlocksUntilIntentFinishes(t *testing.T) {
	vm, svc := setupTestUsers(t)
	release := make(chan struct{})
	svc.On("GetUsers", mock.Anything).
		Run(func(mock.Arguments) { <-release }).
		Return(sampleUsers(), nil)

	vm.Refresh(context.Background())

	done := make(chan struct{})
	go func() {
		vm.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Wait returned while a refresh was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Wait did not return after the refresh finished")
	}
	assert.Equal(t, []int64{1, 2}, ids(vm.State().Users))
}

func TestUsers_PanickingIntentIsRecovered(t *testing.T) {
	vm, svc := setupTestUsers(t)
	svc.On("DeleteUser", mock.Anything, int64(3)).Run(func(mock.Arguments) { panic("boom") })

	vm.DeleteUser(context.Background(), 3)
	vm.Wait()

	s := vm.State()
	assert.False(t, s.Loading)
	assert.Equal(t, "internal error: boom", s.Error)
}
