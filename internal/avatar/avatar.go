package avatar

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Config describes every cosmetic slot of the learner's avatar.
type Config struct {
	AvatarStyle     string `json:"avatarStyle"`
	TopType         string `json:"topType"`
	AccessoriesType string `json:"accessoriesType"`
	HairColor       string `json:"hairColor"`
	FacialHairType  string `json:"facialHairType"`
	ClotheType      string `json:"clotheType"`
	ClotheColor     string `json:"clotheColor"`
	GraphicType     string `json:"graphicType"`
	EyeType         string `json:"eyeType"`
	EyebrowType     string `json:"eyebrowType"`
	MouthType       string `json:"mouthType"`
	SkinColor       string `json:"skinColor"`
}

// Outfit is one unlockable cosmetic bundle.
type Outfit struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Description     string            `json:"description"`
	Rarity          string            `json:"rarity"`
	UnlockCondition string            `json:"unlockCondition"`
	IsPremium       bool              `json:"isPremium,omitempty"`
	ConfigOverrides map[string]string `json:"previewConfigOverrides"`
}

// Snapshot is the avatar state returned to the UI.
type Snapshot struct {
	AvatarConfig      Config   `json:"avatarConfig"`
	SelectedOutfitID  *string  `json:"selectedOutfitId"`
	UnlockedOutfitIDs []string `json:"unlockedOutfitIds"`
	SavedAt           string   `json:"savedAt"`
}

// SaveRequest upserts the avatar config and optionally selects an outfit.
type SaveRequest struct {
	AvatarConfig     *Config `json:"avatarConfig"`
	SelectedOutfitID *string `json:"selectedOutfitId"`
}

var defaultConfig = Config{
	AvatarStyle:     "Transparent",
	TopType:         "ShortHairShortCurly",
	AccessoriesType: "Blank",
	HairColor:       "BrownDark",
	FacialHairType:  "Blank",
	ClotheType:      "Hoodie",
	ClotheColor:     "Blue03",
	GraphicType:     "Diamond",
	EyeType:         "Happy",
	EyebrowType:     "DefaultNatural",
	MouthType:       "Smile",
	SkinColor:       "Light",
}

var outfitCatalog = []Outfit{
	{
		ID:              "outfit-starter-analyst",
		Name:            "Starter Analyst",
		Description:     "A cozy hoodie, confident smile, and curious eyes for new market explorers.",
		Rarity:          "common",
		UnlockCondition: "Available to every learner",
		ConfigOverrides: map[string]string{
			"clotheType":  "Hoodie",
			"clotheColor": "Blue03",
			"graphicType": "Diamond",
		},
	},
	{
		ID:              "outfit-chart-wizard",
		Name:            "Chart Wizard",
		Description:     "Flowing coat with candlestick embroidery and arcane market focus.",
		Rarity:          "rare",
		UnlockCondition: "Complete the Technical Analysis Basics course",
		ConfigOverrides: map[string]string{
			"topType":         "LongHairCurly",
			"hairColor":       "SilverGray",
			"clotheType":      "BlazerSweater",
			"clotheColor":     "PastelGreen",
			"accessoriesType": "Round",
			"graphicType":     "Resist",
		},
	},
	{
		ID:              "outfit-risk-taker",
		Name:            "Risk Taker",
		Description:     "Letterman jacket, bold eyebrows, and a smirk ready for the opening bell.",
		Rarity:          "rare",
		UnlockCondition: "Complete the Intro to Markets course",
		ConfigOverrides: map[string]string{
			"topType":         "ShortHairShaggyMullet",
			"hairColor":       "Black",
			"eyebrowType":     "RaisedExcited",
			"mouthType":       "Serious",
			"clotheType":      "BlazerShirt",
			"clotheColor":     "PastelOrange",
			"accessoriesType": "Wayfarers",
		},
	},
	{
		ID:              "outfit-crypto-knight",
		Name:            "Crypto Knight",
		Description:     "Glowing helmet, cyber hoodie, and neon confidence from the future of finance.",
		Rarity:          "legendary",
		UnlockCondition: "Premium outfit — will be purchasable soon",
		IsPremium:       true,
		ConfigOverrides: map[string]string{
			"topType":         "LongHairShavedSides",
			"hairColor":       "SilverGray",
			"clotheType":      "Hoodie",
			"clotheColor":     "Black",
			"graphicType":     "SkullOutline",
			"accessoriesType": "Sunglasses",
		},
	},
}

// Service holds avatar state in memory only. A process restart resets it to
// the defaults; there is no durable persistence for cosmetics.
type Service struct {
	logger *zap.Logger

	mu         sync.Mutex
	config     Config
	outfitID   *string
	unlockedID map[string]struct{}
	savedAt    string
}

// NewService creates an avatar service with the default config and the
// starter outfit unlocked.
func NewService(logger *zap.Logger) *Service {
	return &Service{
		logger:     logger.Named("avatar"),
		config:     defaultConfig,
		unlockedID: map[string]struct{}{"outfit-starter-analyst": {}},
		savedAt:    time.Now().UTC().Format(time.RFC3339),
	}
}

// CurrentSnapshot returns the stored avatar state.
func (s *Service) CurrentSnapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() Snapshot {
	unlocked := make([]string, 0, len(s.unlockedID))
	for id := range s.unlockedID {
		unlocked = append(unlocked, id)
	}
	return Snapshot{
		AvatarConfig:      s.config,
		SelectedOutfitID:  s.outfitID,
		UnlockedOutfitIDs: unlocked,
		SavedAt:           s.savedAt,
	}
}

// Save upserts the avatar config; selecting an outfit also marks it unlocked.
func (s *Service) Save(req SaveRequest) (Snapshot, error) {
	if req.AvatarConfig == nil {
		return Snapshot{}, ErrInvalidPayload
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.config = *req.AvatarConfig
	s.outfitID = req.SelectedOutfitID
	if s.outfitID != nil {
		s.unlockedID[*s.outfitID] = struct{}{}
	}
	s.savedAt = time.Now().UTC().Format(time.RFC3339)

	s.logger.Info("Avatar saved", zap.Bool("outfit_selected", s.outfitID != nil))
	return s.snapshotLocked(), nil
}

// Outfits returns the cosmetic catalog.
func (s *Service) Outfits() []Outfit {
	return outfitCatalog
}
