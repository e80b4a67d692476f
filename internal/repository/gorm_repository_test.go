package repository_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/Tomlord1122/todo-by-zero/internal/domain"
	"github.com/Tomlord1122/todo-by-zero/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var _ = Describe("GORM repositories", func() {
	var (
		mock   sqlmock.Sqlmock
		mockDb *sql.DB
		gormDB *gorm.DB
		ctx    context.Context
		now    time.Time
	)

	BeforeEach(func() {
		var err error
		mockDb, mock, err = sqlmock.New()
		Expect(err).NotTo(HaveOccurred())

		dialector := postgres.New(postgres.Config{
			Conn:       mockDb,
			DriverName: "postgres",
		})

		gormDB, err = gorm.Open(dialector, &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		ctx = context.Background()
		now = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	})

	AfterEach(func() {
		Expect(mock.ExpectationsWereMet()).To(Succeed())
		mock.ExpectClose()
		Expect(mockDb.Close()).To(Succeed())
	})

	Describe("gormUserRepository", func() {
		var repo repository.UserRepository

		BeforeEach(func() {
			repo = repository.NewGormUserRepository(gormDB)
		})

		It("inserts a user", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`INSERT INTO "users"`).
				WithArgs("u1", "alice@example.com", "hash").
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			err := repo.Create(ctx, &domain.User{ID: "u1", Email: "alice@example.com", PasswordHash: "hash"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("maps a unique violation to ErrDuplicate", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`INSERT INTO "users"`).
				WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})
			mock.ExpectRollback()

			err := repo.Create(ctx, &domain.User{ID: "u1", Email: "alice@example.com", PasswordHash: "hash"})
			Expect(err).To(MatchError(repository.ErrDuplicate))
		})

		It("finds a user by email", func() {
			mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
				WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash"}).
					AddRow("u1", "alice@example.com", "hash"))

			user, err := repo.FindByEmail(ctx, "alice@example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).To(Equal("u1"))
			Expect(user.PasswordHash).To(Equal("hash"))
		})

		It("returns ErrNotFound when no row matches", func() {
			mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
				WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password_hash"}))

			_, err := repo.FindByEmail(ctx, "ghost@example.com")
			Expect(err).To(MatchError(repository.ErrNotFound))
		})
	})

	Describe("gormTodoRepository", func() {
		var (
			repo    repository.TodoRepository
			columns []string
		)

		BeforeEach(func() {
			repo = repository.NewGormTodoRepository(gormDB)
			columns = []string{"id", "user_id", "title", "body", "created_at"}
		})

		It("inserts a todo", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`INSERT INTO "todos"`).
				WithArgs("t1", "alice", "title", "body", now).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			err := repo.Create(ctx, &domain.Todo{ID: "t1", UserID: "alice", Title: "title", Body: "body", CreatedAt: now})
			Expect(err).NotTo(HaveOccurred())
		})

		It("scopes lookups to the owner", func() {
			mock.ExpectQuery(`SELECT \* FROM "todos" WHERE id = \$1 AND user_id = \$2`).
				WillReturnRows(sqlmock.NewRows(columns).AddRow("t1", "alice", "title", "body", now))

			todo, err := repo.FindByID(ctx, "alice", "t1")
			Expect(err).NotTo(HaveOccurred())
			Expect(todo.Title).To(Equal("title"))
		})

		It("returns ErrNotFound for a foreign todo", func() {
			mock.ExpectQuery(`SELECT \* FROM "todos" WHERE id = \$1 AND user_id = \$2`).
				WillReturnRows(sqlmock.NewRows(columns))

			_, err := repo.FindByID(ctx, "bob", "t1")
			Expect(err).To(MatchError(repository.ErrNotFound))
		})

		It("lists the owner's todos oldest first", func() {
			mock.ExpectQuery(`SELECT \* FROM "todos" WHERE user_id = \$1 ORDER BY created_at ASC`).
				WithArgs("alice").
				WillReturnRows(sqlmock.NewRows(columns).
					AddRow("t1", "alice", "one", "", now).
					AddRow("t2", "alice", "two", "", now.Add(time.Minute)))

			todos, err := repo.ListByUser(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(todos).To(HaveLen(2))
			Expect(todos[1].ID).To(Equal("t2"))
		})

		It("updates title and body", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`UPDATE "todos" SET "body"=\$1,"title"=\$2 WHERE id = \$3 AND user_id = \$4`).
				WithArgs("new body", "new title", "t1", "alice").
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			err := repo.Update(ctx, &domain.Todo{ID: "t1", UserID: "alice", Title: "new title", Body: "new body"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("reports ErrNotFound when the update matched nothing", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`UPDATE "todos" SET`).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectCommit()

			err := repo.Update(ctx, &domain.Todo{ID: "t1", UserID: "bob", Title: "x"})
			Expect(err).To(MatchError(repository.ErrNotFound))
		})

		It("deletes a single todo", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`DELETE FROM "todos" WHERE id = \$1 AND user_id = \$2`).
				WithArgs("t1", "alice").
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()

			Expect(repo.Delete(ctx, "alice", "t1")).To(Succeed())
		})

		It("reports ErrNotFound when nothing was deleted", func() {
			mock.ExpectBegin()
			mock.ExpectExec(`DELETE FROM "todos"`).
				WillReturnResult(sqlmock.NewResult(0, 0))
			mock.ExpectCommit()

			Expect(repo.Delete(ctx, "bob", "t1")).To(MatchError(repository.ErrNotFound))
		})
	})
})
