package remote

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"gorest-users/internal/adapter/cache"
	"gorest-users/internal/adapter/gorest"
	domain "gorest-users/internal/domain/user"
	apperrors "gorest-users/pkg/errors"
	"gorest-users/pkg/linkheader"
)

// Client is the subset of the GoREST client the repository needs.
type Client interface {
	ListUsers(ctx context.Context, page int) (*gorest.ListResponse, error)
	CreateUser(ctx context.Context, rec domain.Record) (*gorest.CreateResponse, error)
	DeleteUser(ctx context.Context, id int64) (*gorest.Response, error)
}

// UserRepository implements user.Repository against the remote API. It
// stamps users with locally known creation times, since the API has none.
type UserRepository struct {
	client Client
	store  cache.CreatedAtStore
	log    *zap.Logger
	now    func() time.Time
}

// Option configures the UserRepository.
type Option func(*UserRepository)

// WithClock overrides the time source used for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *UserRepository) {
		r.now = now
	}
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(client Client, store cache.CreatedAtStore, log *zap.Logger, opts ...Option) *UserRepository {
	r := &UserRepository{
		client: client,
		store:  store,
		log:    log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// GetUsersLastPage returns the newest users. The API lists oldest first, so
// page 1 is probed for a Link header advertising the last page, which is then
// fetched instead. Without a usable Link header page 1 is returned as-is.
func (r *UserRepository) GetUsersLastPage(ctx context.Context) ([]domain.User, error) {
	r.log.Info("fetching newest users page")

	first, err := r.client.ListUsers(ctx, domain.FirstPage)
	if err != nil {
		r.log.Error("failed to fetch first users page", zap.Error(err))
		return nil, asNetworkError(err)
	}
	if !first.Successful() {
		r.log.Error("first users page returned error status", zap.Int("status", first.StatusCode))
		return nil, apperrors.NewAPIError(first.StatusCode, "api error")
	}

	link := first.Header.Get(gorest.HeaderLink)
	if link == "" {
		r.log.Debug("no link header, using first page", zap.Int("count", len(first.Users)))
		return r.toDomain(ctx, first.Users), nil
	}

	lastPage, _ := linkheader.LastPage(link)
	p := domain.NewPagination(domain.FirstPage, lastPage)
	if !p.HasLast() {
		r.log.Warn("link header has no last page, using first page", zap.String("link", link))
		return r.toDomain(ctx, first.Users), nil
	}

	r.log.Debug("fetching last users page", zap.Int("from_page", p.Page), zap.Int("last_page", p.LastPage))

	last, err := r.client.ListUsers(ctx, p.LastPage)
	if err != nil {
		r.log.Error("failed to fetch last users page", zap.Int("page", p.LastPage), zap.Error(err))
		return nil, asNetworkError(err)
	}
	if !last.Successful() {
		r.log.Error("last users page returned error status", zap.Int("page", p.LastPage), zap.Int("status", last.StatusCode))
		return nil, apperrors.NewAPIError(last.StatusCode, "api error")
	}

	return r.toDomain(ctx, last.Users), nil
}

// AddUser creates a user with the default gender and status. Only 201 counts
// as success, and the response must carry the assigned identifier.
func (r *UserRepository) AddUser(ctx context.Context, name, email string) (*domain.User, error) {
	r.log.Info("creating remote user", zap.String("name", name), zap.String("email", email))

	resp, err := r.client.CreateUser(ctx, domain.NewRecord(name, email, "", ""))
	if err != nil {
		r.log.Error("failed to create user", zap.Error(err))
		return nil, normalize(err)
	}
	if resp.StatusCode != http.StatusCreated {
		r.log.Error("create user returned unexpected status", zap.Int("status", resp.StatusCode))
		return nil, apperrors.NewAPIError(resp.StatusCode, "creation failed")
	}
	if resp.User == nil || !resp.User.HasID() {
		r.log.Error("create user returned no identifier")
		return nil, apperrors.NewNoDataError()
	}

	now := r.now().UnixMilli()
	id := *resp.User.ID
	if err := r.store.Put(ctx, id, now); err != nil {
		r.log.Warn("failed to record creation time", zap.Int64("id", id), zap.Error(err))
	}

	u, _ := resp.User.ToDomain(now)
	r.log.Info("remote user created", zap.Int64("id", id))
	return &u, nil
}

// DeleteUser deletes a user. Only 204 counts as success; the creation time is
// forgotten only then.
func (r *UserRepository) DeleteUser(ctx context.Context, id int64) error {
	r.log.Info("deleting remote user", zap.Int64("id", id))

	resp, err := r.client.DeleteUser(ctx, id)
	if err != nil {
		r.log.Error("failed to delete user", zap.Int64("id", id), zap.Error(err))
		return normalize(err)
	}
	if resp.StatusCode != http.StatusNoContent {
		r.log.Error("delete user returned unexpected status", zap.Int64("id", id), zap.Int("status", resp.StatusCode))
		return apperrors.NewAPIError(resp.StatusCode, "delete failed")
	}

	if err := r.store.Remove(ctx, id); err != nil {
		r.log.Warn("failed to forget creation time", zap.Int64("id", id), zap.Error(err))
	}

	r.log.Info("remote user deleted", zap.Int64("id", id))
	return nil
}

// toDomain translates records in order, stamping each with its recorded
// creation time or, if unknown, the current time (which is then recorded).
func (r *UserRepository) toDomain(ctx context.Context, records []domain.Record) []domain.User {
	now := r.now().UnixMilli()
	users := make([]domain.User, 0, len(records))

	for _, rec := range records {
		if !rec.HasID() {
			r.log.Warn("skipping listed user without id", zap.String("email", rec.Email))
			continue
		}
		id := *rec.ID

		ts, ok, err := r.store.Get(ctx, id)
		switch {
		case err != nil:
			r.log.Warn("creation time lookup failed, using now", zap.Int64("id", id), zap.Error(err))
			ts = now
		case !ok:
			ts = now
			if err := r.store.Put(ctx, id, ts); err != nil {
				r.log.Warn("failed to record creation time", zap.Int64("id", id), zap.Error(err))
			}
		default:
			r.log.Debug("creation time cache hit", zap.Int64("id", id))
		}

		u, _ := rec.ToDomain(ts)
		users = append(users, u)
	}

	return users
}

// normalize keeps HTTP and network errors as classified and wraps anything
// else as a network error.
func normalize(err error) error {
	var (
		httpErr *apperrors.HTTPError
		netErr  *apperrors.NetworkError
	)
	if errors.As(err, &httpErr) || errors.As(err, &netErr) {
		return err
	}
	return apperrors.NewNetworkError(err)
}

// asNetworkError collapses every transport failure into a network error.
func asNetworkError(err error) error {
	var netErr *apperrors.NetworkError
	if errors.As(err, &netErr) {
		return netErr
	}
	var httpErr *apperrors.HTTPError
	if errors.As(err, &httpErr) {
		return apperrors.NewNetworkError(httpErr.Err)
	}
	return apperrors.NewNetworkError(err)
}
