package testbench_test

import (
	"context"
	"log"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/pkg/errors"
	"go.uber.org/mock/gomock"

	"github.com/db47h/lfsrbench/lfsr"
	"github.com/db47h/lfsrbench/testbench"
	"github.com/db47h/lfsrbench/tqv"
)

type countingCloser struct {
	closed int
	err    error
}

func (c *countingCloser) Close() error {
	c.closed++
	return c.err
}

var _ = Describe("Runner", func() {
	var (
		mockCtrl *gomock.Controller
		regs     *MockRegisterAccessor
		closer   *countingCloser
		setups   []string
		runner   *testbench.Runner
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		regs = NewMockRegisterAccessor(mockCtrl)
		closer = &countingCloser{}
		setups = nil
		runner = &testbench.Runner{
			Log: log.New(GinkgoWriter, "", 0),
			Setup: func(_ context.Context, scenario string) (*testbench.Fixture, error) {
				setups = append(setups, scenario)
				return &testbench.Fixture{
					Regs:   regs,
					Params: testbench.DefaultParams(),
					Closer: closer,
				}, nil
			},
		}
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should run every scenario with its own fixture", func() {
		dut := &fakeLFSR{state: lfsr.ResetValue}
		dut.expectLoads(regs)
		dut.expectReads(regs)
		dut.expectShifts(regs).AnyTimes()
		var results []string
		runner.OnResult = func(r testbench.Result) { results = append(results, r.Scenario) }

		rep := runner.Run(context.Background(), testbench.Scenarios()...)

		Expect(rep.Failed()).To(Equal(0))
		Expect(rep.Results).To(HaveLen(5))
		Expect(setups).To(Equal([]string{"reset", "load", "sequence", "read_stable", "shift_payload"}))
		Expect(results).To(Equal(setups))
		Expect(closer.closed).To(Equal(5))
		Expect(rep.String()).To(HaveSuffix("5 scenario(s), 0 failed\n"))
	})

	It("should keep running after a failure", func() {
		failing := testbench.Scenario{
			Name: "failing",
			Run: func(context.Context, *testbench.Fixture) error {
				return &testbench.MismatchError{Scenario: "failing", What: "value", Expected: 1, Actual: 2}
			},
		}
		passing := testbench.Scenario{
			Name: "passing",
			Run:  func(context.Context, *testbench.Fixture) error { return nil },
		}

		rep := runner.Run(context.Background(), failing, passing)

		Expect(rep.Failed()).To(Equal(1))
		Expect(rep.Results[0].Passed()).To(BeFalse())
		Expect(testbench.IsMismatch(rep.Results[0].Err)).To(BeTrue())
		Expect(rep.Results[1].Passed()).To(BeTrue())
		Expect(closer.closed).To(Equal(2))
		Expect(rep.String()).To(ContainSubstring("FAIL failing"))
	})

	It("should report setup errors", func() {
		openErr := errors.New("no device")
		runner.Setup = func(context.Context, string) (*testbench.Fixture, error) {
			return nil, openErr
		}

		rep := runner.Run(context.Background(), testbench.Scenario{
			Name: "never",
			Run: func(context.Context, *testbench.Fixture) error {
				Fail("scenario should not run")
				return nil
			},
		})

		Expect(rep.Failed()).To(Equal(1))
		Expect(rep.Results[0].Err).To(MatchError("setup: no device"))
		Expect(errors.Cause(rep.Results[0].Err)).To(BeIdenticalTo(openErr))
	})

	It("should recover from panics and still tear down", func() {
		rep := runner.Run(context.Background(), testbench.Scenario{
			Name: "panics",
			Run:  func(context.Context, *testbench.Fixture) error { panic("boom") },
		})

		Expect(rep.Results[0].Err).To(MatchError("panic: boom"))
		Expect(closer.closed).To(Equal(1))
	})

	It("should report teardown errors of passing scenarios", func() {
		closer.err = errors.New("stuck")

		rep := runner.Run(context.Background(), testbench.Scenario{
			Name: "passing",
			Run:  func(context.Context, *testbench.Fixture) error { return nil },
		})

		Expect(rep.Results[0].Err).To(MatchError("teardown: stuck"))
	})
})

var _ = Describe("Simulated peripheral", func() {
	run := func(opts tqv.Options) *testbench.Report {
		r := &testbench.Runner{
			Setup: testbench.DeviceSetup(opts, testbench.DefaultParams(), log.New(GinkgoWriter, "", 0), nil),
			Log:   log.New(GinkgoWriter, "", 0),
		}
		return r.Run(context.Background(), testbench.Scenarios()...)
	}

	It("should pass all scenarios at gate level", func() {
		rep := run(tqv.DefaultOptions())

		Expect(rep.Failed()).To(Equal(0), rep.String())
		for _, r := range rep.Results {
			Expect(r.Sim).To(BeNumerically(">", 0))
		}
	})

	It("should pass all scenarios with the behavioral model", func() {
		opts := tqv.DefaultOptions()
		opts.Behavioral = true

		rep := run(opts)

		Expect(rep.Failed()).To(Equal(0), rep.String())
	})

	It("should only fail the reset scenario with a wrong reset value", func() {
		opts := tqv.DefaultOptions()
		opts.ResetValue = 0x00

		rep := run(opts)

		Expect(rep.Failed()).To(Equal(1), rep.String())
		Expect(rep.Results[0].Scenario).To(Equal(testbench.ScenarioReset))
		Expect(rep.Results[0].Err).To(MatchError("reset: reset value mismatch: expected 0xAA, got 0x00"))
	})

	It("should give each scenario its own transaction stream", func() {
		seen := map[string][]tqv.Transaction{}
		setup := testbench.DeviceSetup(tqv.DefaultOptions(), testbench.DefaultParams(), nil,
			func(scenario string) tqv.Observer {
				return tqv.ObserverFunc(func(t tqv.Transaction) { seen[scenario] = append(seen[scenario], t) })
			})
		r := &testbench.Runner{Setup: setup}

		rep := r.Run(context.Background(), testbench.Scenarios()[:2]...)

		Expect(rep.Failed()).To(Equal(0))
		Expect(seen["reset"]).To(HaveLen(2))
		Expect(seen["reset"][0].Kind).To(Equal(tqv.KindReset))
		Expect(seen["reset"][1].Kind).To(Equal(tqv.KindRead))
		Expect(seen["reset"][1].Data).To(Equal(uint8(0xAA)))
		Expect(seen["load"]).To(HaveLen(3))
		Expect(seen["load"][1].Kind).To(Equal(tqv.KindWrite))
		Expect(seen["load"][1].Address).To(Equal(uint8(lfsr.RegLoad)))
		Expect(seen["load"][1].Data).To(Equal(uint8(lfsr.TestSeed)))
		Expect(seen["load"][1].End - seen["load"][1].Start).To(Equal(2 * tqv.DefaultClockPeriod))
	})
})
