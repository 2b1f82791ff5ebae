package calculation

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/planfolio/planfolio/internal/domain"
)

// savingsBucket is the name of the implicit bucket that receives annual
// contributions during accumulation.
const savingsBucket = "savings"

// defaultInitialWithdrawalRate is the classic 4% rule, used by the
// fixed_percent_initial strategy when no rate is configured.
var defaultInitialWithdrawalRate = decimal.NewFromInt(4)

var one = decimal.NewFromInt(1)
var hundred = decimal.NewFromInt(100)

// ProjectionSimulator runs stochastic multi-year wealth projections. Each
// trial is independent: it reads only the shared immutable parameters and its
// own uniform source, so trials run in parallel without locking.
type ProjectionSimulator struct {
	Params  domain.SimulationParameters
	Sources SourceFactory

	// Tax, when set, grosses up withdrawals drawn from tax_deferred buckets
	// by the current marginal rate, so the configured withdrawal is the
	// after-tax amount actually spent.
	Tax    *TaxCalculator
	Status domain.FilingStatus

	Logger Logger
}

// NewProjectionSimulator creates a simulator with a per-trial seeded source
// derived from the parameters' seed (or the package seed source when unset).
func NewProjectionSimulator(params domain.SimulationParameters) *ProjectionSimulator {
	seed := params.Seed
	if seed == 0 {
		seed = seedFunc()
	}
	return &ProjectionSimulator{
		Params:  params,
		Sources: DefaultSourceFactory(seed),
		Logger:  NopLogger{},
	}
}

// Run executes the batch and returns one full-length path per trial along
// with its insolvency flag. Results are ordered by trial index regardless of
// completion order.
func (ps *ProjectionSimulator) Run(trials int) (*domain.SimulationResult, error) {
	if trials <= 0 {
		return nil, fmt.Errorf("trial count must be positive, got %d", trials)
	}
	if len(ps.Params.AssetClasses) == 0 {
		return nil, fmt.Errorf("at least one asset class is required")
	}
	if ps.Params.ProjectionYears() <= 0 {
		return nil, fmt.Errorf("end age %d must be greater than current age %d", ps.Params.EndAge, ps.Params.CurrentAge)
	}

	result := &domain.SimulationResult{
		Paths:     make([]domain.ProjectionPath, trials),
		Insolvent: make([]bool, trials),
	}

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, 10)

	for i := 0; i < trials; i++ {
		wg.Add(1)
		go func(trial int) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			path, insolvent := ps.runTrial(ps.Sources(trial))
			result.Paths[trial] = path
			result.Insolvent[trial] = insolvent
		}(i)
	}
	wg.Wait()

	return result, nil
}

// boxMuller converts two independent uniform(0,1) draws to one standard
// normal variate.
func boxMuller(u1, u2 float64) float64 {
	if u1 <= 0 {
		u1 = math.SmallestNonzeroFloat64
	}
	return math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
}

// drawReturn samples one year's return for an asset class, in percent.
func drawReturn(ac *domain.AssetClass, year int, uniform UniformSource) decimal.Decimal {
	expected := ac.ExpectedReturnForYear(year)
	if ac.Volatility.IsZero() {
		return expected
	}
	z := boxMuller(uniform(), uniform())
	return expected.Add(decimal.NewFromFloat(z).Mul(ac.Volatility))
}

// growthFactor converts a percent return to a balance multiplier, floored at
// zero so balances never go negative.
func growthFactor(returnPct decimal.Decimal) decimal.Decimal {
	factor := one.Add(returnPct.Div(hundred))
	if factor.IsNegative() {
		return decimal.Zero
	}
	return factor
}

type trialState struct {
	names      []string
	balances   []decimal.Decimal
	treatments []domain.AccountTreatment
	savingsIdx int
}

func (ps *ProjectionSimulator) newTrialState() *trialState {
	n := len(ps.Params.AssetClasses)
	st := &trialState{
		names:      make([]string, n+1),
		balances:   make([]decimal.Decimal, n+1),
		treatments: make([]domain.AccountTreatment, n+1),
		savingsIdx: n,
	}
	for i, ac := range ps.Params.AssetClasses {
		st.names[i] = ac.Name
		st.balances[i] = ac.StartingBalance
		st.treatments[i] = ac.Treatment
	}
	st.names[n] = savingsBucket
	st.balances[n] = decimal.Zero
	st.treatments[n] = domain.Taxable
	return st
}

func (st *trialState) total() decimal.Decimal {
	total := decimal.Zero
	for _, b := range st.balances {
		total = total.Add(b)
	}
	return total
}

func (st *trialState) zeroOut() {
	for i := range st.balances {
		st.balances[i] = decimal.Zero
	}
}

func (ps *ProjectionSimulator) runTrial(uniform UniformSource) (domain.ProjectionPath, bool) {
	params := &ps.Params
	years := params.ProjectionYears()
	accumYears := params.AccumulationYears()

	st := ps.newTrialState()
	path := make(domain.ProjectionPath, years)
	inflationGrowth := one.Add(params.InflationRate.Div(hundred))
	contributionGrowth := one.Add(params.ContributionGrowthRate.Div(hundred))

	insolvent := false
	initialWithdrawal := decimal.Zero

	for year := 0; year < years; year++ {
		if insolvent {
			path[year] = decimal.Zero
			continue
		}

		// Grow each asset bucket by its simulated return; the savings bucket
		// grows at the allocation-weighted blend of the same draws.
		blended := decimal.Zero
		for i := range params.AssetClasses {
			ac := &params.AssetClasses[i]
			r := drawReturn(ac, year, uniform)
			st.balances[i] = st.balances[i].Mul(growthFactor(r))
			if w, ok := params.ContributionAllocation[ac.Name]; ok {
				blended = blended.Add(r.Mul(w))
			}
		}
		st.balances[st.savingsIdx] = st.balances[st.savingsIdx].Mul(growthFactor(blended))

		if year < accumYears {
			contribution := params.AnnualContribution.Mul(contributionGrowth.Pow(decimal.NewFromInt(int64(year))))
			st.balances[st.savingsIdx] = st.balances[st.savingsIdx].Add(contribution)
		} else {
			total := st.total()
			withdrawal := decimal.Zero
			switch params.Strategy {
			case domain.FixedPercentInitial:
				if year == accumYears {
					rate := params.InitialWithdrawalRate
					if rate.IsZero() {
						rate = defaultInitialWithdrawalRate
					}
					initialWithdrawal = total.Mul(rate.Div(hundred))
					withdrawal = initialWithdrawal
				} else {
					yearsRetired := int64(year - accumYears)
					withdrawal = initialWithdrawal.Mul(inflationGrowth.Pow(decimal.NewFromInt(yearsRetired)))
				}
			case domain.DynamicPercentOfBalance:
				withdrawal = total.Mul(params.DynamicRate.Div(hundred))
			case domain.FixedRealIncome:
				withdrawal = params.TargetAnnualIncome.Mul(inflationGrowth.Pow(decimal.NewFromInt(int64(year))))
			default:
				withdrawal = total.Mul(defaultInitialWithdrawalRate.Div(hundred))
			}

			insolvent = ps.withdraw(st, withdrawal)
			if insolvent {
				st.zeroOut()
			}
		}

		path[year] = st.total()
	}

	return path, insolvent
}

// withdraw removes the withdrawal proportionally across buckets by each
// bucket's share of the total, grossing up tax-deferred shares when a tax
// calculator is attached. It reports insolvency when the balance cannot
// cover the withdrawal.
func (ps *ProjectionSimulator) withdraw(st *trialState, withdrawal decimal.Decimal) bool {
	total := st.total()
	if !total.IsPositive() {
		return true
	}
	if withdrawal.LessThanOrEqual(decimal.Zero) {
		return false
	}

	grossUp := one
	if ps.Tax != nil {
		rate := ps.Tax.MarginalRate(withdrawal, ps.Status)
		if rate.LessThan(one) {
			grossUp = one.Div(one.Sub(rate))
		}
	}

	for i := range st.balances {
		share := withdrawal.Mul(st.balances[i]).Div(total)
		if st.treatments[i] == domain.TaxDeferred {
			share = share.Mul(grossUp)
		}
		st.balances[i] = st.balances[i].Sub(share)
		if st.balances[i].IsNegative() {
			st.balances[i] = decimal.Zero
		}
	}
	return !st.total().IsPositive()
}

// Percentiles computes per-year percentile bands across all trials. Paths
// must share a common length.
func Percentiles(paths []domain.ProjectionPath, percentiles []int) domain.PercentileTable {
	table := domain.PercentileTable{Percentiles: percentiles}
	if len(paths) == 0 || len(paths[0]) == 0 {
		return table
	}

	years := len(paths[0])
	table.Years = make([]domain.PercentileYear, years)
	values := make([]decimal.Decimal, len(paths))

	for year := 0; year < years; year++ {
		for i, path := range paths {
			values[i] = path[year]
		}
		sort.Slice(values, func(a, b int) bool { return values[a].LessThan(values[b]) })

		row := domain.PercentileYear{Year: year + 1, Values: make([]decimal.Decimal, len(percentiles))}
		for j, p := range percentiles {
			idx := int(math.Round(float64(p) / 100 * float64(len(values)-1)))
			row.Values[j] = values[idx]
		}
		table.Years[year] = row
	}
	return table
}

// SuccessProbability returns the fraction of trials whose wealth at the
// given zero-based year index (or final year when atYear is out of range)
// meets or exceeds the target.
func SuccessProbability(paths []domain.ProjectionPath, target decimal.Decimal, atYear int) decimal.Decimal {
	if len(paths) == 0 {
		return decimal.Zero
	}
	successes := 0
	for _, path := range paths {
		if len(path) == 0 {
			continue
		}
		idx := atYear
		if idx < 0 || idx >= len(path) {
			idx = len(path) - 1
		}
		if path[idx].GreaterThanOrEqual(target) {
			successes++
		}
	}
	return decimal.NewFromInt(int64(successes)).Div(decimal.NewFromInt(int64(len(paths))))
}
