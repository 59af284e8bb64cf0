package feed

// selectDiverse runs a single greedy pass over score-ordered candidates,
// capping how often one creator or one hashtag may repeat in the result.
//
// A candidate is rejected when its creator has reached maxPerCreator,
// or when any one of its hashtags has reached maxPerHashtag. One
// blocking hashtag excludes the whole video even if its other hashtags
// are under their caps. Rejected candidates are never revisited: the
// pass is order-dependent by construction, not a knapsack optimization.
func selectDiverse(candidates []RankedVideo, maxPerCreator, maxPerHashtag, limit int) []RankedVideo {
	result := make([]RankedVideo, 0, limit)
	creatorCount := make(map[string]int)
	hashtagCount := make(map[string]int)

	for _, c := range candidates {
		if creatorCount[c.Video.CreatorID] >= maxPerCreator {
			continue
		}

		blocked := false
		for _, tag := range c.Video.Hashtags {
			if hashtagCount[tag] >= maxPerHashtag {
				blocked = true
				break
			}
		}
		if blocked {
			continue
		}

		result = append(result, c)
		creatorCount[c.Video.CreatorID]++
		for _, tag := range c.Video.Hashtags {
			hashtagCount[tag]++
		}

		if len(result) >= limit {
			break
		}
	}

	return result
}
