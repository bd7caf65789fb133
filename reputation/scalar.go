package reputation

// overall reduces a Reputation to a single 0..10 score: the unweighted
// mean of its three axes, each rescaled to [0,1] first. A user with no
// would-work-again signal is treated as 0 on that axis, same as the
// source's reputation-overall formula.
func overall(rep Reputation) float64 {
	c := clamp(rep.ContributionAvg/10, 0, 1)
	k := clamp(rep.CommunicationAvg/10, 0, 1)
	w := 0.0
	if rep.WouldWorkAgainRatio != nil {
		w = clamp(*rep.WouldWorkAgainRatio, 0, 1)
	}
	return round2(10 * (c + k + w) / 3)
}
