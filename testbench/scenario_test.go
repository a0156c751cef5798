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
)

// fakeLFSR backs a MockRegisterAccessor with a software LFSR. corruptAt
// flips bit 0 of the state after that many shifts.
type fakeLFSR struct {
	state     uint8
	shifts    int
	corruptAt int
	// xorPayload makes shifts depend on the written data.
	xorPayload bool
}

func (l *fakeLFSR) expectLoads(regs *MockRegisterAccessor) {
	regs.EXPECT().WriteReg(gomock.Any(), uint8(lfsr.RegLoad), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, v uint8) error {
			l.state = v
			return nil
		}).AnyTimes()
}

func (l *fakeLFSR) expectShifts(regs *MockRegisterAccessor) *gomock.Call {
	return regs.EXPECT().WriteReg(gomock.Any(), uint8(lfsr.RegShift), gomock.Any()).
		DoAndReturn(func(_ context.Context, _, v uint8) error {
			l.shifts++
			l.state = lfsr.Next(l.state)
			if l.xorPayload {
				l.state ^= v
			}
			if l.shifts == l.corruptAt {
				l.state ^= 1
			}
			return nil
		})
}

func (l *fakeLFSR) expectReads(regs *MockRegisterAccessor) {
	regs.EXPECT().ReadReg(gomock.Any(), uint8(lfsr.RegState)).
		DoAndReturn(func(context.Context, uint8) (uint8, error) {
			return l.state, nil
		}).AnyTimes()
}

var _ = Describe("Scenarios", func() {
	var (
		mockCtrl *gomock.Controller
		regs     *MockRegisterAccessor
		fixture  *testbench.Fixture
		ctx      context.Context
		busErr   error
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		regs = NewMockRegisterAccessor(mockCtrl)
		fixture = &testbench.Fixture{
			Regs:   regs,
			Params: testbench.DefaultParams(),
			Log:    log.New(GinkgoWriter, "", 0),
		}
		ctx = context.Background()
		busErr = errors.New("bus error")
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	Context("reset", func() {
		It("should pass when the state reads the reset value", func() {
			regs.EXPECT().ReadReg(gomock.Any(), uint8(lfsr.RegState)).Return(uint8(0xAA), nil)

			Expect(testbench.CheckReset(ctx, fixture)).To(Succeed())
		})

		It("should report a mismatch in hex", func() {
			regs.EXPECT().ReadReg(gomock.Any(), uint8(lfsr.RegState)).Return(uint8(0x00), nil)

			err := testbench.CheckReset(ctx, fixture)

			Expect(testbench.IsMismatch(err)).To(BeTrue())
			Expect(err).To(Equal(&testbench.MismatchError{
				Scenario: testbench.ScenarioReset,
				What:     "reset value",
				Expected: 0xAA,
				Actual:   0x00,
			}))
			Expect(err.Error()).To(ContainSubstring("expected 0xAA, got 0x00"))
		})

		It("should propagate register access errors", func() {
			regs.EXPECT().ReadReg(gomock.Any(), gomock.Any()).Return(uint8(0), busErr)

			err := testbench.CheckReset(ctx, fixture)

			Expect(testbench.IsMismatch(err)).To(BeFalse())
			Expect(errors.Cause(err)).To(BeIdenticalTo(busErr))
		})
	})

	Context("load", func() {
		It("should write the seed to the load address and read it back", func() {
			gomock.InOrder(
				regs.EXPECT().WriteReg(gomock.Any(), uint8(lfsr.RegLoad), uint8(0x14)).Return(nil),
				regs.EXPECT().ReadReg(gomock.Any(), uint8(lfsr.RegState)).Return(uint8(0x14), nil),
			)

			Expect(testbench.CheckLoad(ctx, fixture)).To(Succeed())
		})

		It("should fail if the state is not the seed", func() {
			regs.EXPECT().WriteReg(gomock.Any(), uint8(lfsr.RegLoad), uint8(0x14)).Return(nil)
			regs.EXPECT().ReadReg(gomock.Any(), uint8(lfsr.RegState)).Return(uint8(0xAA), nil)

			err := testbench.CheckLoad(ctx, fixture)

			Expect(err).To(MatchError(ContainSubstring("expected 0x14, got 0xAA")))
		})

		It("should not read if the load fails", func() {
			regs.EXPECT().WriteReg(gomock.Any(), gomock.Any(), gomock.Any()).Return(busErr)

			err := testbench.CheckLoad(ctx, fixture)

			Expect(errors.Cause(err)).To(BeIdenticalTo(busErr))
		})
	})

	Context("sequence", func() {
		var dut *fakeLFSR

		BeforeEach(func() {
			dut = &fakeLFSR{state: lfsr.ResetValue}
			dut.expectLoads(regs)
			dut.expectReads(regs)
		})

		It("should shift 50 times following the model", func() {
			dut.expectShifts(regs).Times(50)

			Expect(testbench.CheckSequence(ctx, fixture)).To(Succeed())
			Expect(dut.shifts).To(Equal(50))
		})

		It("should honor the sequence length", func() {
			fixture.Params.Length = 7
			dut.expectShifts(regs).Times(7)

			Expect(testbench.CheckSequence(ctx, fixture)).To(Succeed())
		})

		It("should stop at the first mismatch", func() {
			dut.corruptAt = 3
			dut.expectShifts(regs).Times(3)

			err := testbench.CheckSequence(ctx, fixture)

			seq := lfsr.Sequence(lfsr.TestSeed, 3)
			Expect(err).To(Equal(&testbench.MismatchError{
				Scenario:  testbench.ScenarioSequence,
				What:      "state",
				Iteration: 3,
				Expected:  seq[2],
				Actual:    seq[2] ^ 1,
			}))
			Expect(err.Error()).To(ContainSubstring("on cycle 3"))
		})

		It("should report the failing cycle on access errors", func() {
			dut.expectShifts(regs).Times(4)
			regs.EXPECT().WriteReg(gomock.Any(), uint8(lfsr.RegShift), gomock.Any()).Return(busErr)

			err := testbench.CheckSequence(ctx, fixture)

			Expect(err).To(MatchError(ContainSubstring("cycle 5")))
			Expect(errors.Cause(err)).To(BeIdenticalTo(busErr))
		})
	})

	Context("read stability", func() {
		It("should pass when reads do not mutate the state", func() {
			dut := &fakeLFSR{state: lfsr.ResetValue}
			dut.expectLoads(regs)
			dut.expectReads(regs)

			Expect(testbench.CheckReadStable(ctx, fixture)).To(Succeed())
		})

		It("should fail when a read changes the state", func() {
			state := uint8(lfsr.ResetValue)
			regs.EXPECT().ReadReg(gomock.Any(), uint8(lfsr.RegState)).
				DoAndReturn(func(context.Context, uint8) (uint8, error) {
					v := state
					state = lfsr.Next(state)
					return v, nil
				}).Times(2)

			err := testbench.CheckReadStable(ctx, fixture)

			Expect(err).To(MatchError(ContainSubstring("second read after reset")))
		})
	})

	Context("shift payload", func() {
		It("should pass when the payload is ignored", func() {
			dut := &fakeLFSR{}
			dut.expectLoads(regs)
			dut.expectReads(regs)
			dut.expectShifts(regs).Times(2)

			Expect(testbench.CheckShiftPayload(ctx, fixture)).To(Succeed())
		})

		It("should fail when the payload changes the result", func() {
			dut := &fakeLFSR{xorPayload: true}
			dut.expectLoads(regs)
			dut.expectReads(regs)
			dut.expectShifts(regs).Times(2)

			err := testbench.CheckShiftPayload(ctx, fixture)

			next := lfsr.Next(lfsr.TestSeed)
			Expect(err).To(Equal(&testbench.MismatchError{
				Scenario: testbench.ScenarioShiftPayload,
				What:     "state after shift with payload 0xFF",
				Expected: next,
				Actual:   next ^ 0xFF,
			}))
		})
	})
})

var _ = Describe("Lookup", func() {
	It("should return all scenarios by default", func() {
		s, err := testbench.Lookup()

		Expect(err).ToNot(HaveOccurred())
		Expect(s).To(HaveLen(5))
		Expect(s[0].Name).To(Equal(testbench.ScenarioReset))
		Expect(s[1].Name).To(Equal(testbench.ScenarioLoad))
		Expect(s[2].Name).To(Equal(testbench.ScenarioSequence))
	})

	It("should keep the requested order", func() {
		s, err := testbench.Lookup("sequence", "reset")

		Expect(err).ToNot(HaveOccurred())
		Expect(s).To(HaveLen(2))
		Expect(s[0].Name).To(Equal("sequence"))
		Expect(s[1].Name).To(Equal("reset"))
	})

	It("should reject unknown names", func() {
		_, err := testbench.Lookup("reset", "bogus", "nope")

		Expect(err).To(MatchError("unknown scenario(s): bogus, nope"))
	})
})
