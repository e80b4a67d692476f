package hosted_test

import (
	"encoding/json"
	"time"

	"github.com/Tomlord1122/todo-by-zero/internal/hosted"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Timestamp", func() {
	DescribeTable("decodes created_at values",
		func(raw string, want time.Time) {
			var todo hosted.Todo
			Expect(json.Unmarshal([]byte(`{"id":"1","title":"t","created_at":`+raw+`}`), &todo)).To(Succeed())
			Expect(todo.CreatedAt.Equal(want)).To(BeTrue(), "got %s", todo.CreatedAt)
		},
		Entry("with a Z suffix", `"2025-01-01T12:00:00.5Z"`, time.Date(2025, 1, 1, 12, 0, 0, 500_000_000, time.UTC)),
		Entry("with a full offset", `"2025-01-01T14:00:00.123456+02:00"`, time.Date(2025, 1, 1, 12, 0, 0, 123_456_000, time.UTC)),
		Entry("with an hour offset", `"2025-01-01T14:00:00+02"`, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)),
		Entry("without a zone", `"2025-01-01T12:00:00.123456"`, time.Date(2025, 1, 1, 12, 0, 0, 123_456_000, time.UTC)),
		Entry("with a space separator", `"2025-01-01 12:00:00"`, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)),
		Entry("with a space separator and offset", `"2025-01-01 13:00:00+01"`, time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)),
	)

	It("leaves null as the zero time", func() {
		var todo hosted.Todo
		Expect(json.Unmarshal([]byte(`{"id":"1","created_at":null}`), &todo)).To(Succeed())
		Expect(todo.CreatedAt.IsZero()).To(BeTrue())
	})

	It("rejects values it cannot read", func() {
		var todo hosted.Todo
		err := json.Unmarshal([]byte(`{"id":"1","created_at":"yesterday"}`), &todo)
		Expect(err).To(MatchError(ContainSubstring(`unrecognised value "yesterday"`)))
	})

	It("encodes as RFC 3339", func() {
		data, err := json.Marshal(hosted.Todo{
			ID:        "1",
			CreatedAt: hosted.Timestamp{Time: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(ContainSubstring(`"created_at":"2025-01-01T12:00:00Z"`))
	})
})
