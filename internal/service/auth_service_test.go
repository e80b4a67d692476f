package service_test

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/Tomlord1122/todo-by-zero/internal/domain"
	"github.com/Tomlord1122/todo-by-zero/internal/repository"
	"github.com/Tomlord1122/todo-by-zero/internal/service"
	"github.com/Tomlord1122/todo-by-zero/internal/service/fake"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("AuthService", func() {
	var (
		users         repository.UserRepository
		fakeRecoverer *fake.PasswordRecoverer
		ctx           context.Context

		auth *service.AuthService
	)

	BeforeEach(func() {
		users = repository.NewFileUserRepository(GinkgoT().TempDir())
		fakeRecoverer = new(fake.PasswordRecoverer)
		ctx = context.Background()

		auth = service.NewAuthService(zap.NewNop().Sugar(), users, service.NewPasswordHasher(bcrypt.MinCost), fakeRecoverer, "https://app.example.com/reset-password")
	})

	Describe("Register", func() {
		var (
			req  service.RegisterRequest
			user *service.UserResponse
			err  error
		)

		BeforeEach(func() {
			req = service.RegisterRequest{Email: "  Alice@Example.com ", Password: "pw"}
		})

		JustBeforeEach(func() {
			user, err = auth.Register(ctx, req)
		})

		It("creates the account with a normalised email", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(user.ID).NotTo(BeEmpty())
			Expect(user.Email).To(Equal("alice@example.com"))

			stored, findErr := users.FindByEmail(ctx, "alice@example.com")
			Expect(findErr).NotTo(HaveOccurred())
			Expect(stored.PasswordHash).NotTo(Equal("pw"))
		})

		When("the email is already taken", func() {
			BeforeEach(func() {
				_, err := auth.Register(ctx, service.RegisterRequest{Email: "alice@example.com", Password: "other"})
				Expect(err).NotTo(HaveOccurred())
			})

			It("returns ErrUserExists", func() {
				Expect(err).To(MatchError(service.ErrUserExists))
			})
		})

		When("the password is missing", func() {
			BeforeEach(func() {
				req.Password = ""
			})

			It("returns a validation error", func() {
				Expect(service.IsValidation(err)).To(BeTrue())
				Expect(err).To(MatchError("Email and password required"))
			})
		})

		When("the email is missing", func() {
			BeforeEach(func() {
				req.Email = "   "
			})

			It("returns a validation error", func() {
				Expect(err).To(MatchError("Email and password required"))
			})
		})

		When("the email is malformed", func() {
			BeforeEach(func() {
				req.Email = "not-an-email"
			})

			It("returns a validation error", func() {
				Expect(err).To(MatchError("Invalid email address"))
			})
		})
	})

	Describe("Login", func() {
		var (
			req  service.LoginRequest
			user *service.UserResponse
			err  error
		)

		BeforeEach(func() {
			_, err := auth.Register(ctx, service.RegisterRequest{Email: "alice@example.com", Password: "pw"})
			Expect(err).NotTo(HaveOccurred())
			req = service.LoginRequest{Email: "ALICE@example.com", Password: "pw"}
		})

		JustBeforeEach(func() {
			user, err = auth.Login(ctx, req)
		})

		It("returns the account", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Email).To(Equal("alice@example.com"))
		})

		When("the password is wrong", func() {
			BeforeEach(func() {
				req.Password = "nope"
			})

			It("returns ErrInvalidCredentials", func() {
				Expect(err).To(MatchError(service.ErrInvalidCredentials))
			})
		})

		When("the account does not exist", func() {
			BeforeEach(func() {
				req.Email = "bob@example.com"
			})

			It("returns ErrInvalidCredentials", func() {
				Expect(err).To(MatchError(service.ErrInvalidCredentials))
			})
		})

		When("a field is missing", func() {
			BeforeEach(func() {
				req.Email = ""
			})

			It("returns a validation error", func() {
				Expect(err).To(MatchError("Email and password required"))
			})
		})

		When("the account carries a legacy digest", func() {
			BeforeEach(func() {
				sum := sha256.Sum256([]byte("old-pw"))
				Expect(users.Create(ctx, &domain.User{
					ID:           "legacy",
					Email:        "carol@example.com",
					PasswordHash: hex.EncodeToString(sum[:]),
				})).To(Succeed())
				req = service.LoginRequest{Email: "carol@example.com", Password: "old-pw"}
			})

			It("accepts the password", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(user.ID).To(Equal("legacy"))
			})
		})
	})

	Describe("ForgotPassword", func() {
		var (
			req service.ForgotPasswordRequest
			err error
		)

		BeforeEach(func() {
			_, err := auth.Register(ctx, service.RegisterRequest{Email: "alice@example.com", Password: "pw"})
			Expect(err).NotTo(HaveOccurred())
			req = service.ForgotPasswordRequest{Email: "alice@example.com"}
		})

		JustBeforeEach(func() {
			err = auth.ForgotPassword(ctx, req)
		})

		It("requests a recovery email for an existing account", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(fakeRecoverer.RecoverCallCount()).To(Equal(1))
			_, email, redirect := fakeRecoverer.RecoverArgsForCall(0)
			Expect(email).To(Equal("alice@example.com"))
			Expect(redirect).To(Equal("https://app.example.com/reset-password"))
		})

		When("the account does not exist", func() {
			BeforeEach(func() {
				req.Email = "ghost@example.com"
			})

			It("succeeds without sending anything", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(fakeRecoverer.RecoverCallCount()).To(Equal(0))
			})
		})

		When("the recovery backend fails", func() {
			BeforeEach(func() {
				fakeRecoverer.RecoverReturns(errors.New("fake error"))
			})

			It("still succeeds", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(fakeRecoverer.RecoverCallCount()).To(Equal(1))
			})
		})

		When("the email is missing", func() {
			BeforeEach(func() {
				req.Email = ""
			})

			It("returns a validation error", func() {
				Expect(err).To(MatchError("Email required"))
			})
		})

		When("no recovery backend is configured", func() {
			BeforeEach(func() {
				auth = service.NewAuthService(zap.NewNop().Sugar(), users, service.NewPasswordHasher(bcrypt.MinCost), nil, "")
			})

			It("acknowledges the request", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(fakeRecoverer.RecoverCallCount()).To(Equal(0))
			})
		})
	})
})
