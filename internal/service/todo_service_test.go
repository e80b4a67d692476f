package service_test

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/Tomlord1122/todo-by-zero/internal/repository"
	"github.com/Tomlord1122/todo-by-zero/internal/service"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
)

func strPtr(s string) *string {
	return &s
}

var _ = Describe("TodoService", func() {
	var (
		svc service.TodoService
		ctx context.Context
		now time.Time
	)

	BeforeEach(func() {
		now = time.Date(2025, 3, 4, 5, 6, 7, 890_000_000, time.UTC)
		origNow := service.TimeNow
		service.TimeNow = func() time.Time { return now }
		DeferCleanup(func() { service.TimeNow = origNow })

		svc = service.NewTodoService(zap.NewNop().Sugar(), repository.NewFileTodoRepository(GinkgoT().TempDir()))
		ctx = context.Background()
	})

	Describe("CreateTodo", func() {
		It("stores the todo for its owner with an empty default body", func() {
			todo, err := svc.CreateTodo(ctx, "alice", service.CreateTodoRequest{Title: "milk"})
			Expect(err).NotTo(HaveOccurred())
			Expect(todo.ID).NotTo(BeEmpty())
			Expect(todo.UserID).To(Equal("alice"))
			Expect(todo.Title).To(Equal("milk"))
			Expect(todo.Body).To(Equal(""))
			Expect(todo.CreatedAt).To(Equal("2025-03-04T05:06:07.890Z"))
		})

		It("stores the creation time with millisecond precision", func() {
			now = time.Date(2025, 3, 4, 5, 6, 7, 890_123_456, time.UTC)
			dir := GinkgoT().TempDir()
			repo := repository.NewFileTodoRepository(dir)
			svc = service.NewTodoService(zap.NewNop().Sugar(), repo)

			todo, err := svc.CreateTodo(ctx, "alice", service.CreateTodoRequest{Title: "milk"})
			Expect(err).NotTo(HaveOccurred())
			Expect(todo.CreatedAt).To(Equal("2025-03-04T05:06:07.890Z"))

			stored, err := repo.FindByID(ctx, "alice", todo.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.CreatedAt).To(Equal(time.Date(2025, 3, 4, 5, 6, 7, 890_000_000, time.UTC)))

			data, err := os.ReadFile(filepath.Join(dir, "todos.json"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).NotTo(ContainSubstring("123456"))
		})

		It("requires a title", func() {
			_, err := svc.CreateTodo(ctx, "alice", service.CreateTodoRequest{Body: "no title"})
			Expect(service.IsValidation(err)).To(BeTrue())
			Expect(err).To(MatchError("Title required"))
		})

		It("requires a caller", func() {
			_, err := svc.CreateTodo(ctx, "", service.CreateTodoRequest{Title: "milk"})
			Expect(err).To(MatchError(service.ErrUnauthorized))
		})
	})

	Describe("with todos of two users", func() {
		var aliceTodo *service.TodoResponse

		BeforeEach(func() {
			var err error
			aliceTodo, err = svc.CreateTodo(ctx, "alice", service.CreateTodoRequest{Title: "milk", Body: "2 litres"})
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.CreateTodo(ctx, "bob", service.CreateTodoRequest{Title: "bread"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("lists only the caller's todos", func() {
			todos, err := svc.ListTodos(ctx, "alice")
			Expect(err).NotTo(HaveOccurred())
			Expect(todos).To(HaveLen(1))
			Expect(todos[0].ID).To(Equal(aliceTodo.ID))
		})

		It("returns an empty list for a user without todos", func() {
			todos, err := svc.ListTodos(ctx, "carol")
			Expect(err).NotTo(HaveOccurred())
			Expect(todos).To(BeEmpty())
		})

		It("hides a todo from other users", func() {
			_, err := svc.GetTodoByID(ctx, "bob", aliceTodo.ID)
			Expect(err).To(MatchError(service.ErrTodoNotFound))

			_, err = svc.UpdateTodo(ctx, "bob", aliceTodo.ID, service.UpdateTodoRequest{Title: strPtr("mine")})
			Expect(err).To(MatchError(service.ErrTodoNotFound))

			Expect(svc.DeleteTodo(ctx, "bob", aliceTodo.ID)).To(MatchError(service.ErrTodoNotFound))

			todo, err := svc.GetTodoByID(ctx, "alice", aliceTodo.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(todo.Title).To(Equal("milk"))
		})

		Describe("UpdateTodo", func() {
			It("keeps fields that are not given", func() {
				todo, err := svc.UpdateTodo(ctx, "alice", aliceTodo.ID, service.UpdateTodoRequest{Title: strPtr("oat milk")})
				Expect(err).NotTo(HaveOccurred())
				Expect(todo.Title).To(Equal("oat milk"))
				Expect(todo.Body).To(Equal("2 litres"))
				Expect(todo.CreatedAt).To(Equal(aliceTodo.CreatedAt))
			})

			It("keeps the title when it is empty", func() {
				todo, err := svc.UpdateTodo(ctx, "alice", aliceTodo.ID, service.UpdateTodoRequest{Title: strPtr(""), Body: strPtr("1 litre")})
				Expect(err).NotTo(HaveOccurred())
				Expect(todo.Title).To(Equal("milk"))
				Expect(todo.Body).To(Equal("1 litre"))
			})

			It("clears the body when it is explicitly empty", func() {
				_, err := svc.UpdateTodo(ctx, "alice", aliceTodo.ID, service.UpdateTodoRequest{Body: strPtr("")})
				Expect(err).NotTo(HaveOccurred())

				todo, err := svc.GetTodoByID(ctx, "alice", aliceTodo.ID)
				Expect(err).NotTo(HaveOccurred())
				Expect(todo.Body).To(BeEmpty())
			})

			It("returns ErrTodoNotFound for an unknown id", func() {
				_, err := svc.UpdateTodo(ctx, "alice", "missing", service.UpdateTodoRequest{})
				Expect(err).To(MatchError(service.ErrTodoNotFound))
			})
		})

		Describe("DeleteTodo", func() {
			It("removes exactly the matching todo", func() {
				Expect(svc.DeleteTodo(ctx, "alice", aliceTodo.ID)).To(Succeed())

				todos, err := svc.ListTodos(ctx, "alice")
				Expect(err).NotTo(HaveOccurred())
				Expect(todos).To(BeEmpty())

				todos, err = svc.ListTodos(ctx, "bob")
				Expect(err).NotTo(HaveOccurred())
				Expect(todos).To(HaveLen(1))
			})

			It("returns ErrTodoNotFound the second time", func() {
				Expect(svc.DeleteTodo(ctx, "alice", aliceTodo.ID)).To(Succeed())
				Expect(svc.DeleteTodo(ctx, "alice", aliceTodo.ID)).To(MatchError(service.ErrTodoNotFound))
			})
		})
	})
})
