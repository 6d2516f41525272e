package usecases

import (
	"fmt"
	"math/rand/v2"
)

var (
	nicknameAdjectives = []string{"快乐的", "勤劳的", "安静的", "阳光的", "认真的", "温柔的", "机智的", "开朗的"}
	nicknameNouns      = []string{"可乐", "橙子", "松鼠", "海豚", "云朵", "星星", "小鹿", "蜜桃"}
)

// avatarCount is the number of bundled placeholder avatars.
const avatarCount = 6

// PlaceholderProfile picks a nickname and avatar for a newly registered customer.
// The same seed always yields the same pair.
type PlaceholderProfile func(seed int64) (nickname, avatar string)

// DefaultPlaceholderProfile draws from fixed word lists with a PCG source.
func DefaultPlaceholderProfile(seed int64) (string, string) {
	r := rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
	nickname := nicknameAdjectives[r.IntN(len(nicknameAdjectives))] + nicknameNouns[r.IntN(len(nicknameNouns))]
	avatar := fmt.Sprintf("avatars/avatar%d.jpg", r.IntN(avatarCount)+1)
	return nickname, avatar
}
