package emotion

import "github.com/emotune/emotune/internal/domain"

// SelectLargest picks the region with the largest area, assuming the largest
// face is the subject closest to the camera. Ties keep the first region.
func SelectLargest(regions []domain.FaceRegion) (domain.FaceRegion, bool) {
	if len(regions) == 0 {
		return domain.FaceRegion{}, false
	}

	best := regions[0]
	for _, r := range regions[1:] {
		if r.Area() > best.Area() {
			best = r
		}
	}
	return best, true
}
