package credit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindFlatInstallment_SinglePeriod(t *testing.T) {
	// 1000.00 at 0.10%/day, one month, issued 2025-01-01, due on the 15th:
	// the only period runs 45 days to 2025-02-15 and accrues 45.00 interest.
	terms := Terms{
		Principal:  100000,
		DailyRate:  0.0010,
		TermMonths: 1,
		StartDate:  date(2025, 1, 1),
		DueDay:     15,
	}

	plan, err := FindFlatInstallment(terms)
	require.NoError(t, err)

	assert.Equal(t, Cents(104500), plan.Installment)
	require.Len(t, plan.Schedule, 1)

	row := plan.Schedule[0]
	assert.Equal(t, date(2025, 2, 15), row.DueDate)
	assert.Equal(t, 45, row.Days)
	assert.Equal(t, Cents(4500), row.InterestAccrued)
	assert.Equal(t, Cents(4500), row.InterestPaid)
	assert.Equal(t, Cents(100000), row.PrincipalPaid)
	assert.Equal(t, Cents(0), row.TotalOutstanding)
	assert.Equal(t, Cents(104500), plan.TotalPaid)
	assert.Equal(t, Cents(4500), plan.Overpayment)
}

func TestFindFlatInstallment_Convergence(t *testing.T) {
	principals := []Cents{1000, 123457, 10_000_000}
	rates := []float64{0.0008, 0.0010, 0.0012, 0.0015}
	terms := []int{1, 6, 12, 60, 360}

	start := date(2025, 11, 9)
	for _, p := range principals {
		for _, r := range rates {
			for _, n := range terms {
				plan, err := FindFlatInstallment(Terms{
					Principal:  p,
					DailyRate:  r,
					TermMonths: n,
					StartDate:  start,
					DueDay:     15,
				})
				require.NoError(t, err, "principal=%d rate=%v term=%d", p, r, n)
				require.Len(t, plan.Schedule, n)

				last := plan.Schedule[n-1]
				assert.Equal(t, Cents(0), last.TotalOutstanding,
					"principal=%d rate=%v term=%d must amortize exactly", p, r, n)

				for _, row := range plan.Schedule {
					assert.GreaterOrEqual(t, row.PrincipalBalance, Cents(0))
					assert.GreaterOrEqual(t, row.InterestDebtCarried, Cents(0))
					assert.Equal(t, row.InstallmentPaid,
						row.InterestDebtPaid+row.InterestPaid+row.PrincipalPaid,
						"period %d must conserve the installment", row.Period)
				}
			}
		}
	}
}

func TestSimulate_MonotoneInInstallment(t *testing.T) {
	terms := Terms{
		Principal:  500000,
		DailyRate:  0.0012,
		TermMonths: 18,
		StartDate:  date(2025, 11, 9),
		DueDay:     15,
	}

	// Raising the installment by one cent never increases the final residual;
	// the bisection depends on this.
	for pay := Cents(20000); pay < 50000; pay += 997 {
		assert.LessOrEqual(t, simulate(terms, pay+1), simulate(terms, pay),
			"residual must be non-increasing at installment %d", pay)
	}
}

func TestFindFlatInstallment_Deterministic(t *testing.T) {
	terms := Terms{
		Principal:  1_000_000,
		DailyRate:  0.0010,
		TermMonths: 18,
		StartDate:  date(2025, 11, 9),
		DueDay:     15,
	}

	first, err := FindFlatInstallment(terms)
	require.NoError(t, err)
	second, err := FindFlatInstallment(terms)
	require.NoError(t, err)

	assert.Equal(t, first, second, "the planner is a pure function of its inputs")
}

func TestSchedule_MatchesPlan(t *testing.T) {
	terms := Terms{
		Principal:  750000,
		DailyRate:  0.0008,
		TermMonths: 12,
		StartDate:  date(2026, 1, 20),
		DueDay:     5,
	}

	plan, err := FindFlatInstallment(terms)
	require.NoError(t, err)

	rows, err := Schedule(terms, plan.Installment)
	require.NoError(t, err)
	assert.Equal(t, plan.Schedule, rows)
}

func TestFindFlatInstallment_DueDayClamp(t *testing.T) {
	terms := Terms{
		Principal:  200000,
		DailyRate:  0.0010,
		TermMonths: 3,
		StartDate:  date(2025, 1, 31),
		DueDay:     31,
	}

	plan, err := FindFlatInstallment(terms)
	require.NoError(t, err)
	require.Len(t, plan.Schedule, 3)

	assert.Equal(t, date(2025, 2, 28), plan.Schedule[0].DueDate)
	assert.Equal(t, date(2025, 3, 31), plan.Schedule[1].DueDate)
	assert.Equal(t, date(2025, 4, 30), plan.Schedule[2].DueDate)
	assert.Equal(t, 28, plan.Schedule[0].Days)
	assert.Equal(t, 31, plan.Schedule[1].Days)
	assert.Equal(t, 30, plan.Schedule[2].Days)
}

func TestFindFlatInstallment_RejectsBadTerms(t *testing.T) {
	good := Terms{
		Principal:  100000,
		DailyRate:  0.0010,
		TermMonths: 12,
		StartDate:  date(2025, 1, 1),
		DueDay:     15,
	}

	cases := map[string]func(*Terms){
		"zero principal":     func(t *Terms) { t.Principal = 0 },
		"negative principal": func(t *Terms) { t.Principal = -1 },
		"zero rate":          func(t *Terms) { t.DailyRate = 0 },
		"zero term":          func(t *Terms) { t.TermMonths = 0 },
		"due day too small":  func(t *Terms) { t.DueDay = 0 },
		"due day too large":  func(t *Terms) { t.DueDay = 32 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			terms := good
			mutate(&terms)
			_, err := FindFlatInstallment(terms)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
