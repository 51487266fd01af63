package viewmodel

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	domain "gorest-users/internal/domain/user"
	"gorest-users/internal/usecase/user"
	"gorest-users/pkg/validation"
)

// State is a snapshot of what the user list screen shows.
type State struct {
	Users   []domain.User
	Loading bool
	Error   string
}

func (s State) clone() State {
	s.Users = slices.Clone(s.Users)
	return s
}

// Users holds the list screen state and turns intents into use-case calls.
// Intents run concurrently and are not ordered against each other; the last
// one to finish decides the list and error.
type Users struct {
	svc user.Service
	log *zap.Logger

	mu       sync.Mutex
	idle     *sync.Cond // signaled when inflight drops to zero
	state    State
	inflight int
	subs     map[int]chan State
	nextSub  int
}

// NewUsers creates a state holder with an empty list.
func NewUsers(svc user.Service, log *zap.Logger) *Users {
	vm := &Users{
		svc:  svc,
		log:  log,
		subs: make(map[int]chan State),
	}
	vm.idle = sync.NewCond(&vm.mu)
	return vm
}

// State returns the current snapshot.
func (vm *Users) State() State {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return vm.state.clone()
}

// Subscribe returns a channel receiving state snapshots and a func that
// stops delivery and closes the channel. A slow reader only ever sees the
// most recent snapshot.
func (vm *Users) Subscribe() (<-chan State, func()) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	id := vm.nextSub
	vm.nextSub++
	ch := make(chan State, 1)
	ch <- vm.state.clone()
	vm.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			vm.mu.Lock()
			defer vm.mu.Unlock()
			delete(vm.subs, id)
			close(ch)
		})
	}
}

// Wait blocks until no intent is in flight. Intents started while waiting
// are waited for too. Safe to call concurrently with intents.
func (vm *Users) Wait() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	for vm.inflight > 0 {
		vm.idle.Wait()
	}
}

// run executes task on its own goroutine and applies its result. A panic
// in task is recovered and shown as an error.
func (vm *Users) run(task func() func(*State)) {
	go func() {
		var apply func(*State)

		var pc panics.Catcher
		pc.Try(func() { apply = task() })
		if r := pc.Recovered(); r != nil {
			vm.log.Error("intent panicked", zap.Any("panic", r.Value), zap.String("stack", string(r.Stack)))
			apply = func(s *State) { s.Error = fmt.Sprintf("internal error: %v", r.Value) }
		}

		vm.end(apply)
	}()
}

// Refresh reloads the newest users. On failure the list is cleared.
func (vm *Users) Refresh(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	vm.begin()

	vm.run(func() func(*State) {
		users, err := vm.svc.GetUsers(ctx)
		return func(s *State) {
			if err != nil {
				vm.log.Warn("refresh failed", zap.Error(err))
				s.Users = nil
				s.Error = err.Error()
				return
			}
			s.Users = users
			s.Error = ""
		}
	})
}

// AddUser validates the form and, if it is valid, creates the user in the
// background. Validation errors are returned without touching the state.
func (vm *Users) AddUser(ctx context.Context, name, email string) error {
	in, err := validation.ValidateNewUser(validation.NewUserInput{Name: name, Email: email})
	if err != nil {
		return err
	}

	ctx = context.WithoutCancel(ctx)
	vm.begin()

	vm.run(func() func(*State) {
		u, err := vm.svc.AddUser(ctx, in.Name, in.Email)
		return func(s *State) {
			if err != nil {
				vm.log.Warn("add user failed", zap.Error(err))
				s.Error = err.Error()
				return
			}
			s.Users = append(s.Users, *u)
			s.Error = ""
		}
	})
	return nil
}

// DeleteUser deletes the user in the background. On failure the list is kept.
func (vm *Users) DeleteUser(ctx context.Context, id int64) {
	ctx = context.WithoutCancel(ctx)
	vm.begin()

	vm.run(func() func(*State) {
		err := vm.svc.DeleteUser(ctx, id)
		return func(s *State) {
			if err != nil {
				vm.log.Warn("delete user failed", zap.Int64("id", id), zap.Error(err))
				s.Error = err.Error()
				return
			}
			s.Users = slices.DeleteFunc(s.Users, func(u domain.User) bool { return u.ID == id })
			s.Error = ""
		}
	})
}

func (vm *Users) begin() {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	vm.inflight++
	vm.state.Loading = true
	vm.state.Error = ""
	vm.publish()
}

func (vm *Users) end(apply func(*State)) {
	vm.mu.Lock()
	defer vm.mu.Unlock()

	// Copy before mutating so snapshots already handed out stay intact.
	vm.state.Users = slices.Clone(vm.state.Users)
	apply(&vm.state)

	vm.inflight--
	vm.state.Loading = vm.inflight > 0
	if vm.inflight == 0 {
		vm.idle.Broadcast()
	}
	vm.publish()
}

// publish must be called with mu held.
func (vm *Users) publish() {
	for _, ch := range vm.subs {
		snapshot := vm.state.clone()
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}
