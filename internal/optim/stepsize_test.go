package optim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/mariogeiger/gradcmp-optim/internal/optim"
)

var _ = Describe("step size control", func() {
	var (
		p  *optim.Param
		g  *optim.Group
		it *optim.Integrator
	)

	BeforeEach(func() {
		p = &optim.Param{Value: []float64{0, 0}, Grad: []float64{1, 0}}
		var err error
		g, err = optim.NewGroup(optim.Config{Tau: 0, Dt: 1, LowBound: 0.01, HighBound: 0.1}, p)
		Expect(err).NotTo(HaveOccurred())
		it = optim.New(g)
		Expect(it.Step(nil)).To(Succeed())
	})

	When("the gradient is unchanged at the proposed point", func() {
		BeforeEach(func() {
			p.Grad[0], p.Grad[1] = 1, 0
			Expect(it.Step(nil)).To(Succeed())
		})

		It("accepts the step", func() {
			Expect(g.Accepted()).To(BeTrue())
			Expect(g.StepCount()).To(Equal(1))
		})

		It("advances the clock by the old step size and grows dt", func() {
			Expect(g.Time()).To(BeNumerically("==", 1))
			Expect(g.StepSize()).To(BeNumerically("~", 1.1, 1e-12))
		})
	})

	When("the gradient drifts moderately", func() {
		BeforeEach(func() {
			p.Grad[0], p.Grad[1] = 1, 0.2
			Expect(it.Step(nil)).To(Succeed())
		})

		It("accepts without growing dt", func() {
			Expect(g.Accepted()).To(BeTrue())
			Expect(g.StepSize()).To(BeNumerically("==", 1))
		})
	})

	When("the gradient turns orthogonal", func() {
		BeforeEach(func() {
			p.Grad[0], p.Grad[1] = 0, 1
			Expect(it.Step(nil)).To(Succeed())
		})

		It("rejects and shrinks dt tenfold", func() {
			Expect(g.Accepted()).To(BeFalse())
			Expect(g.StepSize()).To(BeNumerically("~", 0.1, 1e-15))
		})

		It("keeps the clock and step counter", func() {
			Expect(g.Time()).To(BeZero())
			Expect(g.StepCount()).To(BeZero())
		})

		It("re-proposes from the committed point", func() {
			Expect(p.Value[0]).To(BeNumerically("~", -0.1, 1e-15))
			Expect(p.Value[1]).To(BeZero())
		})
	})

	When("the gradient vanishes at the proposed point", func() {
		BeforeEach(func() {
			p.Grad[0], p.Grad[1] = 0, 0
		})

		It("reports a degenerate comparison", func() {
			Expect(it.Step(nil)).To(MatchError(optim.ErrDegenerateGradient))
		})
	})
})
