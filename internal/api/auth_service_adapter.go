package api

import "github.com/soaringjerry/wellcheck/internal/services"

type authStoreAdapter struct {
	store Store
}

func newAuthStoreAdapter(store Store) services.AuthStore {
	return &authStoreAdapter{store: store}
}

func (a *authStoreAdapter) FindUserByEmail(email string) (*services.User, error) {
	u, err := a.store.FindUserByEmail(email)
	if err != nil || u == nil {
		return nil, err
	}
	return &services.User{ID: u.ID, Email: u.Email, PassHash: u.PassHash, Role: services.Role(u.Role), CreatedAt: u.CreatedAt}, nil
}

func (a *authStoreAdapter) AddUser(u *services.User) error {
	if u == nil {
		return services.NewInvalidError("user required")
	}
	return a.store.AddUser(&User{ID: u.ID, Email: u.Email, PassHash: u.PassHash, Role: string(u.Role), CreatedAt: u.CreatedAt})
}

// CreateCounselor provisions a counselor account directly in store. Counselor
// roles are never granted through the public register endpoint.
func CreateCounselor(store Store, email, password string) (string, error) {
	return services.NewAuthService(newAuthStoreAdapter(store), nil, 0).CreateCounselor(email, password)
}

var _ services.AuthStore = (*authStoreAdapter)(nil)
