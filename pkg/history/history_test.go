package history_test

import (
	"fmt"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/lumora-ai/voicechat/pkg/history"
)

var _ = Describe("Log", func() {
	Describe("NewLog", func() {
		It("starts empty", func() {
			log := history.NewLog(10)

			Expect(log.Len()).To(Equal(0))
			Expect(log.Snapshot()).To(BeEmpty())
		})

		It("panics on a non-positive bound", func() {
			Expect(func() { history.NewLog(0) }).To(Panic())
			Expect(func() { history.NewLog(-1) }).To(Panic())
		})
	})

	Describe("Append", func() {
		It("keeps turns in insertion order, oldest first", func() {
			log := history.NewLog(10)
			log.Append(history.RoleUser, "hello")
			log.Append(history.RoleAssistant, "hi there")

			turns := log.Snapshot()
			Expect(turns).To(HaveLen(2))
			Expect(turns[0]).To(Equal(history.Turn{Role: history.RoleUser, Content: "hello"}))
			Expect(turns[1]).To(Equal(history.Turn{Role: history.RoleAssistant, Content: "hi there"}))
		})

		It("never grows beyond the bound", func() {
			log := history.NewLog(3)
			for i := 0; i < 50; i++ {
				log.Append(history.RoleUser, fmt.Sprintf("turn %d", i))
			}

			Expect(log.Len()).To(Equal(3))
		})

		It("evicts the oldest turn first", func() {
			log := history.NewLog(2)
			log.Append(history.RoleUser, "first")
			log.Append(history.RoleAssistant, "second")
			log.Append(history.RoleUser, "third")

			turns := log.Snapshot()
			Expect(turns).To(HaveLen(2))
			Expect(turns[0].Content).To(Equal("second"))
			Expect(turns[1].Content).To(Equal("third"))
		})
	})

	Describe("Snapshot", func() {
		It("returns a copy that later appends do not mutate", func() {
			log := history.NewLog(5)
			log.Append(history.RoleUser, "before")

			snap := log.Snapshot()
			log.Append(history.RoleAssistant, "after")

			Expect(snap).To(HaveLen(1))
			Expect(snap[0].Content).To(Equal("before"))
		})
	})

	Describe("concurrent access", func() {
		It("holds the bound under concurrent appends", func() {
			log := history.NewLog(10)

			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 100; i++ {
						log.Append(history.RoleUser, fmt.Sprintf("g%d-%d", g, i))
						_ = log.Snapshot()
					}
				}(g)
			}
			wg.Wait()

			Expect(log.Len()).To(Equal(10))
		})
	})
})
