package reveal_test

import (
	"errors"
	"io"
	"math/rand"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/san-kum/lottosim/internal/config"
	"github.com/san-kum/lottosim/internal/history"
	"github.com/san-kum/lottosim/internal/machine"
	"github.com/san-kum/lottosim/internal/render"
	"github.com/san-kum/lottosim/internal/reveal"
	"github.com/san-kum/lottosim/internal/sched"
	"github.com/san-kum/lottosim/internal/storage"
)

var epoch = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

type fixedDrawer struct {
	numbers []int
	err     error
	calls   int
}

func (d *fixedDrawer) Draw(count, max int) ([]int, error) {
	d.calls++
	if d.err != nil {
		return nil, d.err
	}
	return append([]int(nil), d.numbers...), nil
}

type brokenHistory struct{}

func (brokenHistory) Append([]int, time.Time) (history.Entry, error) {
	return history.Entry{}, errors.New("disk full")
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

const ms = time.Millisecond

var _ = Describe("Controller", func() {
	var (
		cfg     *config.Config
		loop    *sched.Loop
		rec     *render.Recorder
		m       *machine.Machine
		drawer  *fixedDrawer
		hist    *history.Log
		ctrl    *reveal.Controller
		results []reveal.Result
		drumMax int
		numbers = []int{3, 11, 19, 27, 36, 44}
	)

	BeforeEach(func() {
		cfg = config.DefaultConfig()
		loop = sched.NewLoop(epoch)
		rec = render.NewRecorder()
		drawer = &fixedDrawer{numbers: numbers}
		hist = history.New(storage.NewMemoryStore(), "", quietLogger()).WithLocation(time.UTC)
		results = nil
		drumMax = 45
	})

	JustBeforeEach(func() {
		mcfg := config.DefaultConfig()
		mcfg.Draw.Max = drumMax
		m = machine.New(mcfg, loop, rand.New(rand.NewSource(7)), rec)
		ctrl = reveal.New(cfg, m, loop, drawer, rec).
			WithHistory(hist).
			WithLogger(quietLogger())
		ctrl.OnComplete(func(r reveal.Result) { results = append(results, r) })
		m.Spawn()
	})

	Describe("triggering", func() {
		It("starts idle with the trigger enabled", func() {
			Expect(ctrl.Phase()).To(Equal(reveal.Idle))
			Expect(rec.Trigger).To(BeTrue())
		})

		It("enters picking at once and disables the trigger", func() {
			Expect(ctrl.Trigger()).To(BeTrue())
			Expect(ctrl.Phase()).To(Equal(reveal.Picking))
			Expect(rec.Trigger).To(BeFalse())
			Expect(m.WindActive()).To(BeTrue())
			_, err := uuid.Parse(ctrl.Round())
			Expect(err).NotTo(HaveOccurred())
		})

		It("ignores a second trigger during the wind lead", func() {
			Expect(ctrl.Trigger()).To(BeTrue())
			loop.Advance(700 * ms)
			Expect(ctrl.Trigger()).To(BeFalse())
			Expect(m.WindRemaining()).To(Equal(1300 * ms))

			loop.Advance(cfg.Timing.RevealDuration(6))
			Expect(drawer.calls).To(Equal(1))
			Expect(results).To(HaveLen(1))
			Expect(hist.Len()).To(Equal(1))
		})

		It("ignores taps while picking", func() {
			ctrl.Trigger()
			loop.Advance(2 * time.Second)
			Expect(m.WindActive()).To(BeFalse())
			Expect(ctrl.Tap(5)).To(BeFalse())
			Expect(m.WindActive()).To(BeFalse())
		})

		It("blows wind on tap when idle", func() {
			Expect(ctrl.Tap(5)).To(BeTrue())
			Expect(m.WindActive()).To(BeTrue())
			Expect(ctrl.Tap(6)).To(BeFalse())
		})
	})

	Describe("the script", func() {
		JustBeforeEach(func() {
			ctrl.Trigger()
		})

		It("keeps the balls moving through the wind lead", func() {
			loop.Advance(1499 * ms)
			Expect(m.Running()).To(BeTrue())
			Expect(rec.CountState(render.Active)).To(Equal(45))
			Expect(drawer.calls).To(BeZero())
		})

		It("freezes the drum and picks the first ball", func() {
			loop.Advance(1500 * ms)
			Expect(m.Running()).To(BeFalse())
			Expect(rec.States[3]).To(Equal(render.Picked))
			Expect(rec.CountState(render.Dimmed)).To(Equal(44))
			Expect(rec.Shakes).To(Equal(1))
			Expect(rec.Center).To(BeEmpty())
			Expect(rec.CenterShown).To(BeFalse())
		})

		It("fades a picked ball after the hold", func() {
			loop.Advance(1699 * ms)
			Expect(rec.Visible[3]).To(BeTrue())

			loop.Advance(1 * ms)
			Expect(rec.Visible[3]).To(BeFalse())
			Expect(rec.Center).To(BeEmpty())
			Expect(rec.CenterShown).To(BeFalse())
		})

		It("moves a faded ball to the center display once the fade ends", func() {
			loop.Advance(1999 * ms)
			Expect(rec.Center).To(BeEmpty())

			loop.Advance(1 * ms)
			Expect(rec.Center).To(Equal([]int{3}))
			Expect(rec.CenterShown).To(BeTrue())
			Expect(ctrl.Stage()).To(Equal("gap"))
		})

		It("picks one ball every 900ms in ascending order", func() {
			for i, n := range numbers {
				loop.Advance(time.Duration(1500+900*i)*ms - loop.Now().Sub(epoch))
				Expect(rec.States[n]).To(Equal(render.Picked), "ball %d", n)
				if i+1 < len(numbers) {
					Expect(rec.States[numbers[i+1]]).To(Equal(render.Dimmed))
				}
			}
			loop.Advance(499 * ms)
			Expect(rec.Center).To(Equal(numbers[:5]))
			loop.Advance(1 * ms)
			Expect(rec.Center).To(Equal(numbers))
			Expect(rec.Shakes).To(Equal(6))
		})

		It("hides the center display before revealing the results", func() {
			loop.Advance(7700 * ms)
			Expect(rec.CenterShown).To(BeFalse())
			Expect(rec.Tokens).To(BeEmpty())

			loop.Advance(500 * ms)
			Expect(rec.Results).To(Equal(numbers))
			Expect(rec.Tokens).To(Equal([]int{3}))

			loop.Advance(250 * ms)
			Expect(rec.Tokens).To(Equal([]int{3, 11, 19}))

			loop.Advance(250 * ms)
			Expect(rec.Tokens).To(Equal(numbers))
		})

		It("stays picking until the hold ends", func() {
			loop.Advance(9199 * ms)
			Expect(ctrl.Phase()).To(Equal(reveal.Picking))
			Expect(hist.Len()).To(BeZero())
			Expect(results).To(BeEmpty())
		})

		It("resets the drum and records the round", func() {
			loop.Advance(9200 * ms)

			Expect(ctrl.Phase()).To(Equal(reveal.Idle))
			Expect(rec.Trigger).To(BeTrue())
			Expect(m.Running()).To(BeTrue())
			Expect(m.ActiveCount()).To(Equal(45))
			Expect(rec.CountState(render.Active)).To(Equal(45))

			entries := hist.LoadAll()
			Expect(entries).To(HaveLen(1))
			Expect(entries[0].Numbers).To(Equal(numbers))
			Expect(entries[0].Timestamp).To(Equal(epoch.Add(9200 * ms).UnixMilli()))
			Expect(entries[0].Date).To(Equal("2024. 03. 09. 오후 02:05:16"))

			Expect(results).To(HaveLen(1))
			r := results[0]
			Expect(r.Numbers).To(Equal(numbers))
			Expect(r.Saved).To(BeTrue())
			Expect(r.Missing).To(BeEmpty())
			Expect(r.Duration()).To(Equal(9200 * ms))
			Expect(r.Round).To(Equal(ctrl.Round()))
			Expect(ctrl.Last()).NotTo(BeNil())
			Expect(ctrl.Rounds()).To(Equal(1))
		})

		It("accepts a new trigger once the round is over", func() {
			loop.Advance(9200 * ms)
			first := ctrl.Round()

			drawer.numbers = []int{1, 2, 3, 4, 5, 6}
			Expect(ctrl.Trigger()).To(BeTrue())
			Expect(ctrl.Round()).NotTo(Equal(first))
			loop.Advance(9200 * ms)

			entries := hist.LoadAll()
			Expect(entries).To(HaveLen(2))
			Expect(entries[0].Numbers).To(Equal([]int{1, 2, 3, 4, 5, 6}))
			Expect(entries[1].Numbers).To(Equal(numbers))
		})
	})

	Context("when a drawn ball is not in the drum", func() {
		BeforeEach(func() {
			drumMax = 40
		})

		JustBeforeEach(func() {
			ctrl.Trigger()
		})

		It("skips the pick but keeps the gap", func() {
			loop.Advance(8699 * ms)
			Expect(ctrl.Phase()).To(Equal(reveal.Picking))
			Expect(rec.Center).To(Equal([]int{3, 11, 19, 27, 36}))

			loop.Advance(1 * ms)
			Expect(ctrl.Phase()).To(Equal(reveal.Idle))
			Expect(rec.Shakes).To(Equal(5))
			Expect(rec.Results).To(Equal(numbers))

			Expect(results).To(HaveLen(1))
			Expect(results[0].Missing).To(Equal([]int{44}))
			Expect(hist.LoadAll()[0].Numbers).To(Equal(numbers))
		})
	})

	Context("when history cannot be written", func() {
		It("still finishes the round", func() {
			ctrl.WithHistory(brokenHistory{})
			ctrl.Trigger()
			loop.Advance(9200 * ms)

			Expect(ctrl.Phase()).To(Equal(reveal.Idle))
			Expect(rec.Trigger).To(BeTrue())
			Expect(results).To(HaveLen(1))
			Expect(results[0].Saved).To(BeFalse())
		})
	})

	Context("when the draw fails", func() {
		It("returns to idle without recording", func() {
			drawer.err = errors.New("no entropy")
			ctrl.Trigger()
			loop.Advance(1500 * ms)

			Expect(ctrl.Phase()).To(Equal(reveal.Idle))
			Expect(rec.Trigger).To(BeTrue())
			Expect(m.Running()).To(BeTrue())
			Expect(results).To(BeEmpty())
			Expect(hist.Len()).To(BeZero())
		})
	})
})
