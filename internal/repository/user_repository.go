package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mahirlabib/pricescope/internal/model"
)

const userColumns = "id,first_name,last_name,username,email,password_hash,role," +
	"favorite_list,wishlist,compares,created_at,updated_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

func scanUser(row interface{ Scan(...any) error }) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Username, &u.Email,
		&u.PasswordHash, &u.Role, &u.FavoriteList, &u.WishlistSet, &u.Compares,
		&u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return u, ErrNotFound
	}
	return u, err
}

// Create inserts an account and returns its id. The password must already
// be hashed. Unique-key collisions are mapped onto the sentinel for the
// offending column.
func (r *UserRepo) Create(ctx context.Context, u *model.User) (uint64, error) {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Username = strings.TrimSpace(u.Username)
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (first_name,last_name,username,email,password_hash,role,
		 favorite_list,wishlist,compares)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		u.FirstName, u.LastName, u.Username, u.Email, u.PasswordHash, u.Role,
		u.FavoriteList, u.WishlistSet, u.Compares)
	if err != nil {
		return 0, dupKeyError(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	u.ID = uint64(id)
	return u.ID, nil
}

// dupKeyError maps MySQL error 1062 onto the sentinel matching the unique
// key named in the message; anything else passes through untouched.
func dupKeyError(err error) error {
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "1062") {
		return err
	}
	if strings.Contains(msg, "email") {
		return ErrEmailExists
	}
	return ErrUsernameExists
}

// GetByID fetches an account by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByLogin fetches an account by email or username; login accepts
// either.
func (r *UserRepo) GetByLogin(ctx context.Context, email, username string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	username = strings.TrimSpace(username)
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? OR username=? LIMIT 1",
		email, username))
}

// UpdateProfile overwrites name, username and email.
func (r *UserRepo) UpdateProfile(ctx context.Context, u *model.User) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET first_name=?,last_name=?,username=?,email=? WHERE id=?",
		u.FirstName, u.LastName, u.Username, strings.ToLower(strings.TrimSpace(u.Email)), u.ID)
	if err != nil {
		return dupKeyError(err)
	}
	return nil
}

// UpdatePassword replaces the stored hash.
func (r *UserRepo) UpdatePassword(ctx context.Context, id uint64, hash string) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET password_hash=? WHERE id=?", hash, id)
	return err
}

// SaveFavorites persists a toggled favorite list. Single-column write;
// the matching counter update on the product row is a separate call.
func (r *UserRepo) SaveFavorites(ctx context.Context, id uint64, list model.RefList) error {
	return r.saveList(ctx, id, "favorite_list", list)
}

// SaveWishlist persists a toggled wishlist.
func (r *UserRepo) SaveWishlist(ctx context.Context, id uint64, list model.Wishlist) error {
	return r.saveList(ctx, id, "wishlist", list)
}

// SaveCompares persists a toggled compare list.
func (r *UserRepo) SaveCompares(ctx context.Context, id uint64, list model.RefList) error {
	return r.saveList(ctx, id, "compares", list)
}

func (r *UserRepo) saveList(ctx context.Context, id uint64, column string, list any) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+column+"=? WHERE id=?", list, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes an account by id.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of accounts plus the total count.
func (r *UserRepo) List(ctx context.Context, page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY id LIMIT ? OFFSET ?",
		limit, (page-1)*limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	return users, total, err
}

// SearchAny matches a single term against first name, last name, username
// and email, case-insensitively. limit <= 0 disables pagination and
// returns every match.
func (r *UserRepo) SearchAny(ctx context.Context, term string, page, limit int) ([]model.User, int64, error) {
	cond := "1=1"
	args := []any{}
	if term != "" {
		like := "%" + strings.ToLower(term) + "%"
		cond = `(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?
			OR LOWER(username) LIKE ? OR LOWER(email) LIKE ?)`
		args = append(args, like, like, like, like)
	}

	var total int64
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE "+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := "SELECT " + userColumns + " FROM users WHERE " + cond + " ORDER BY id"
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		dataSQL += " LIMIT ? OFFSET ?"
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := r.DB.QueryContext(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	return users, total, err
}

func collectUsers(rows *sql.Rows) ([]model.User, error) {
	var out []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
