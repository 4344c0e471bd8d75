package services

import "pasale-dashboard/internal/models"

type Feature string

const (
	FeatureAI              Feature = "ai_features"
	FeatureForecasting     Feature = "forecasting"
	FeatureRecommendations Feature = "recommendations"
)

type Capabilities struct {
	Features          map[Feature]bool `json:"features"`
	DataRetentionDays int              `json:"data_retention_days"`
}

type UpgradeOption struct {
	Tier  models.Tier `json:"tier"`
	Name  string      `json:"name"`
	Price int         `json:"price"`
}

const defaultRetentionDays = 7

var (
	aiOnly = map[Feature]bool{
		FeatureAI:              true,
		FeatureForecasting:     false,
		FeatureRecommendations: false,
	}
	allFeatures = map[Feature]bool{
		FeatureAI:              true,
		FeatureForecasting:     true,
		FeatureRecommendations: true,
	}
)

// AI features are open to every tier, free included. Forecasting and
// recommendations stay premium.
var tierCapabilities = map[models.Tier]Capabilities{
	models.TierFree:    {Features: aiOnly, DataRetentionDays: 7},
	models.TierBasic:   {Features: aiOnly, DataRetentionDays: 365},
	models.TierPremium: {Features: allFeatures, DataRetentionDays: 365},
}

var upgradeOptions = map[models.Tier][]UpgradeOption{
	models.TierFree: {
		{Tier: models.TierBasic, Name: "Basic", Price: 2000},
		{Tier: models.TierPremium, Name: "Premium", Price: 5000},
	},
	models.TierBasic: {
		{Tier: models.TierPremium, Name: "Premium", Price: 3000},
	},
}

// CapabilitiesFor returns the capability set of the user's tier. A missing
// user or tier gets no features.
func CapabilitiesFor(user *models.User) Capabilities {
	if user == nil {
		return Capabilities{Features: map[Feature]bool{}, DataRetentionDays: defaultRetentionDays}
	}
	c, ok := tierCapabilities[user.SubscriptionTier]
	if !ok {
		return Capabilities{Features: map[Feature]bool{}, DataRetentionDays: defaultRetentionDays}
	}
	return c
}

func HasFeature(user *models.User, f Feature) bool {
	return CapabilitiesFor(user).Features[f]
}

func UpgradeOptions(user *models.User) []UpgradeOption {
	if user == nil {
		return nil
	}
	return upgradeOptions[user.SubscriptionTier]
}
