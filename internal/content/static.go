// Package content holds the static game tables and the level content providers.
package content

import (
	"fmt"

	"github.com/verte-zerg/inkblade/internal/model"
)

// MaxLevel is the number of levels in a run.
const MaxLevel = 5

// Levels is the campaign, indexed by level number minus one.
var Levels = []model.LevelConfig{
	{
		Number:    1,
		Element:   model.ElementFire,
		BossName:  "烈焰魔君",
		Tier:      1,
		StoryText: "玄華界邊境，赤地千里。烈焰魔君守在此處，誓要燒盡一切希望。勇者凌風拔劍出鞘，唯有以「水」之流暢鍵法，方能破此劫難。",
	},
	{
		Number:    2,
		Element:   model.ElementWater,
		BossName:  "深淵漩渦",
		Tier:      2,
		StoryText: "越過火海，眼前是一片死寂的黑水。深淵中傳來低語，試圖淹沒勇者的意志。需心如止水，鍵指如飛。",
	},
	{
		Number:    3,
		Element:   model.ElementWood,
		BossName:  "腐朽樹妖",
		Tier:      3,
		StoryText: "枯木林中迷霧重重，腐朽樹妖操縱藤蔓遮天蔽日。勇者需斬斷迷惘，尋找生機之源。",
	},
	{
		Number:    4,
		Element:   model.ElementMetal,
		BossName:  "千刃兵主",
		Tier:      4,
		StoryText: "劍塚荒原，金屬撞擊聲不絕於耳。千刃兵主以無數殘劍為甲，唯有比鋼鐵更堅定的信念能擊穿它。",
	},
	{
		Number:    5,
		Element:   model.ElementEarth,
		BossName:  "泰山巨像",
		Tier:      5,
		StoryText: "最終之地，泰山壓頂。巨像守護著最後的魔元。這是最後的試煉，為了玄華界的未來，揮出你的最後一劍！",
	},
}

// Level returns the configuration for a 1-based level number.
// Asking for a level outside the campaign is a programming error.
func Level(n int) model.LevelConfig {
	if n < 1 || n > len(Levels) {
		panic(fmt.Sprintf("content: level %d out of range 1..%d", n, len(Levels)))
	}
	return Levels[n-1]
}

// DifficultyTable maps each tier to its multipliers.
var DifficultyTable = map[model.Difficulty]model.DifficultySettings{
	model.DifficultyEasy:   {SpeedMultiplier: 1.5, DamageMultiplier: 0.5, WordLength: "短"},
	model.DifficultyNormal: {SpeedMultiplier: 1.0, DamageMultiplier: 1.0, WordLength: "中"},
	model.DifficultyHard:   {SpeedMultiplier: 0.7, DamageMultiplier: 1.5, WordLength: "長"},
}

// Settings returns the multipliers for a difficulty, defaulting to normal.
func Settings(d model.Difficulty) model.DifficultySettings {
	if s, ok := DifficultyTable[d]; ok {
		return s
	}
	return DifficultyTable[model.DifficultyNormal]
}

// StaticWords is the built-in word table keyed by element.
var StaticWords = map[model.Element][]string{
	model.ElementFire:    {"燃燒", "火焰", "星火燎原", "烈火烹油", "浴火重生", "烽火連天", "熱血沸騰"},
	model.ElementWater:   {"流水", "波濤", "細水長流", "海納百川", "波瀾壯闊", "滴水穿石", "鏡花水月"},
	model.ElementWood:    {"森林", "生機", "枯木逢春", "葉落歸根", "盤根錯節", "草木皆兵", "蒼松翠柏"},
	model.ElementMetal:   {"鋒利", "鋼鐵", "金戈鐵馬", "固若金湯", "切金斷玉", "銅牆鐵壁", "點石成金"},
	model.ElementEarth:   {"山嶽", "大地", "堅如磐石", "重若泰山", "捲土重來", "地動山搖", "塵埃落定"},
	model.ElementHealing: {"治癒", "回春", "休息", "平靜", "呼吸", "安神", "靈丹", "妙藥", "生機"},
}

// StaticIntro is the built-in boss taunt keyed by element.
var StaticIntro = map[model.Element]string{
	model.ElementFire:    "凡人！在我的烈焰中化為灰燼吧！",
	model.ElementWater:   "你的掙扎就像水中的泡沫，毫無意義。",
	model.ElementWood:    "感受自然的憤怒，成為我的養分！",
	model.ElementMetal:   "我的利刃將切斷你所有的希望。",
	model.ElementEarth:   "我就是這座山，你無法撼動我分毫！",
	model.ElementHealing: "勇者，且慢行，吾賜汝靈力...",
}

// HealingWords returns a copy of the fixed healing pool.
func HealingWords() []string {
	return append([]string(nil), StaticWords[model.ElementHealing]...)
}

// StaticContent returns the built-in content for an element.
func StaticContent(element model.Element) Content {
	return Content{
		Intro: StaticIntro[element],
		Words: append([]string(nil), StaticWords[element]...),
	}
}
