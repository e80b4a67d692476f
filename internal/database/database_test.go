package database_test

import (
	"database/sql"
	"errors"

	"github.com/Tomlord1122/todo-by-zero/internal/database"

	"github.com/DATA-DOG/go-sqlmock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var _ = Describe("Service", func() {
	var (
		mock   sqlmock.Sqlmock
		mockDb *sql.DB
		svc    database.Service
	)

	BeforeEach(func() {
		var err error
		mockDb, mock, err = sqlmock.New(sqlmock.MonitorPingsOption(true))
		Expect(err).NotTo(HaveOccurred())

		dialector := postgres.New(postgres.Config{
			Conn:       mockDb,
			DriverName: "postgres",
		})
		gormDB, err := gorm.Open(dialector, &gorm.Config{DisableAutomaticPing: true})
		Expect(err).NotTo(HaveOccurred())

		svc = database.FromGorm(gormDB, zap.NewNop().Sugar())
	})

	Describe("Health", func() {
		It("reports up with pool statistics when the ping succeeds", func() {
			mock.ExpectPing()

			stats := svc.Health()
			Expect(stats).To(HaveKeyWithValue("status", "up"))
			Expect(stats).To(HaveKeyWithValue("driver", "postgres"))
			Expect(stats).To(HaveKey("open_connections"))
			Expect(mock.ExpectationsWereMet()).To(Succeed())
		})

		It("reports down when the ping fails", func() {
			mock.ExpectPing().WillReturnError(errors.New("connection refused"))

			stats := svc.Health()
			Expect(stats).To(HaveKeyWithValue("status", "down"))
			Expect(stats["error"]).To(ContainSubstring("connection refused"))
		})
	})

	Describe("Close", func() {
		It("closes the underlying pool", func() {
			mock.ExpectClose()

			Expect(svc.Close()).To(Succeed())
			Expect(mock.ExpectationsWereMet()).To(Succeed())
		})
	})
})
