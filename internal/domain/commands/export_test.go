package commands

// PlanInvocation exports planInvocation for testing.
var PlanInvocation = planInvocation //nolint:gochecknoglobals // test export

// FilterSatisfiedUpgrades exports filterSatisfiedUpgrades for testing.
var FilterSatisfiedUpgrades = filterSatisfiedUpgrades //nolint:gochecknoglobals // test export

// CollectPlans exports collectPlans for testing.
var CollectPlans = collectPlans //nolint:gochecknoglobals // test export
