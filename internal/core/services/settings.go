package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/custodia-labs/interlink/internal/core/domain"
	"github.com/custodia-labs/interlink/internal/core/ports/driven"
	"github.com/custodia-labs/interlink/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// settingKind is the value type of a stored setting.
type settingKind int

const (
	kindBool settingKind = iota
	kindInt
	kindString
	kindList
)

// setting binds one config key to one LinkPolicy field.
type setting struct {
	key  string
	kind settingKind
	get  func(p *domain.LinkPolicy) any
	set  func(p *domain.LinkPolicy, v any)
}

// linkSettings lists every stored policy option in display order.
var linkSettings = []setting{
	{"linking.enabled", kindBool,
		func(p *domain.LinkPolicy) any { return p.Enabled },
		func(p *domain.LinkPolicy, v any) { p.Enabled = v.(bool) }},
	{"linking.max_links_per_page", kindInt,
		func(p *domain.LinkPolicy) any { return p.MaxLinksPerPage },
		func(p *domain.LinkPolicy, v any) { p.MaxLinksPerPage = v.(int) }},
	{"linking.links_per_words_divisor", kindInt,
		func(p *domain.LinkPolicy) any { return p.LinksPerWordsDivisor },
		func(p *domain.LinkPolicy, v any) { p.LinksPerWordsDivisor = v.(int) }},
	{"linking.min_words_before_linking", kindInt,
		func(p *domain.LinkPolicy) any { return p.MinWordsBeforeLinking },
		func(p *domain.LinkPolicy, v any) { p.MinWordsBeforeLinking = v.(int) }},
	{"linking.dedupe_anchors", kindBool,
		func(p *domain.LinkPolicy) any { return p.DedupeAnchors },
		func(p *domain.LinkPolicy, v any) { p.DedupeAnchors = v.(bool) }},
	{"linking.allow_self_link", kindBool,
		func(p *domain.LinkPolicy) any { return p.AllowSelfLink },
		func(p *domain.LinkPolicy, v any) { p.AllowSelfLink = v.(bool) }},
	{"linking.exclude_hierarchy", kindBool,
		func(p *domain.LinkPolicy) any { return p.ExcludeHierarchy },
		func(p *domain.LinkPolicy, v any) { p.ExcludeHierarchy = v.(bool) }},
	{"linking.include_relations", kindList,
		func(p *domain.LinkPolicy) any { return relationNames(p.IncludeRelations) },
		func(p *domain.LinkPolicy, v any) { p.IncludeRelations = relationKinds(v.([]string)) }},
	{"linking.exclude_relations", kindList,
		func(p *domain.LinkPolicy) any { return relationNames(p.ExcludeRelations) },
		func(p *domain.LinkPolicy, v any) { p.ExcludeRelations = relationKinds(v.([]string)) }},
	{"linking.deny_ids", kindList,
		func(p *domain.LinkPolicy) any { return nonNil(p.DenyIDs) },
		func(p *domain.LinkPolicy, v any) { p.DenyIDs = nilIfEmpty(v.([]string)) }},
	{"linking.anchor_source", kindString,
		func(p *domain.LinkPolicy) any { return p.AnchorSource.String() },
		func(p *domain.LinkPolicy, v any) { p.AnchorSource = domain.AnchorSource(v.(string)) }},
	{"linking.case_sensitive", kindBool,
		func(p *domain.LinkPolicy) any { return p.CaseSensitive },
		func(p *domain.LinkPolicy, v any) { p.CaseSensitive = v.(bool) }},
	{"linking.max_anchors_per_target", kindInt,
		func(p *domain.LinkPolicy) any { return p.MaxAnchorsPerTarget },
		func(p *domain.LinkPolicy, v any) { p.MaxAnchorsPerTarget = v.(int) }},
	{"linking.limit_per_paragraph", kindBool,
		func(p *domain.LinkPolicy) any { return p.LimitPerParagraph },
		func(p *domain.LinkPolicy, v any) { p.LimitPerParagraph = v.(bool) }},
	{"linking.max_links_per_paragraph", kindInt,
		func(p *domain.LinkPolicy) any { return p.MaxLinksPerParagraph },
		func(p *domain.LinkPolicy, v any) { p.MaxLinksPerParagraph = v.(int) }},
	{"linking.min_paragraph_words", kindInt,
		func(p *domain.LinkPolicy) any { return p.MinParagraphWords },
		func(p *domain.LinkPolicy, v any) { p.MinParagraphWords = v.(int) }},
	{"linking.prefer_nested", kindBool,
		func(p *domain.LinkPolicy) any { return p.PreferNested },
		func(p *domain.LinkPolicy, v any) { p.PreferNested = v.(bool) }},
	{"linking.skip_linked_targets", kindBool,
		func(p *domain.LinkPolicy) any { return p.SkipLinkedTargets },
		func(p *domain.LinkPolicy, v any) { p.SkipLinkedTargets = v.(bool) }},
	{"linking.url_prefix", kindString,
		func(p *domain.LinkPolicy) any { return p.URLPrefix },
		func(p *domain.LinkPolicy, v any) { p.URLPrefix = v.(string) }},
	{"linking.trailing_slash", kindBool,
		func(p *domain.LinkPolicy) any { return p.TrailingSlash },
		func(p *domain.LinkPolicy, v any) { p.TrailingSlash = v.(bool) }},
	{"linking.containers", kindList,
		func(p *domain.LinkPolicy) any { return nonNil(p.Containers) },
		func(p *domain.LinkPolicy, v any) { p.Containers = nilIfEmpty(v.([]string)) }},
	{"linking.excluded_tags", kindList,
		func(p *domain.LinkPolicy) any { return nonNil(p.ExcludedTags) },
		func(p *domain.LinkPolicy, v any) { p.ExcludedTags = nilIfEmpty(v.([]string)) }},
}

// SettingsService stores the link policy in the config store.
type SettingsService struct {
	configStore driven.ConfigStore
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{configStore: configStore}
}

// Get returns the stored policy overlaid on the defaults.
// Values of the wrong type are ignored. Values of the right type but out of
// range are returned as stored, so the policy fails validation before use.
func (s *SettingsService) Get() (*domain.LinkPolicy, error) {
	policy := domain.DefaultLinkPolicy()

	for _, st := range linkSettings {
		raw, ok := s.configStore.Get(st.key)
		if !ok {
			continue
		}
		if v, ok := coerce(st.kind, raw); ok {
			st.set(&policy, v)
		}
	}

	return &policy, nil
}

// Save validates and persists every policy option.
func (s *SettingsService) Save(policy *domain.LinkPolicy) error {
	if policy == nil {
		return fmt.Errorf("%w: policy is required", domain.ErrInvalidInput)
	}
	if err := policy.Validate(); err != nil {
		return err
	}

	values := make(map[string]any, len(linkSettings))
	for _, st := range linkSettings {
		values[st.key] = st.get(policy)
	}
	if err := s.configStore.SetMany(values); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// Set parses value for key and stores it if the resulting policy is valid.
// Lists are comma separated; an empty value clears a list.
func (s *SettingsService) Set(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parse(st.kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	policy, err := s.Get()
	if err != nil {
		return err
	}
	st.set(policy, parsed)
	if err := policy.Validate(); err != nil {
		return err
	}

	if err := s.configStore.Set(st.key, st.get(policy)); err != nil {
		return fmt.Errorf("save %s: %w", st.key, err)
	}
	return nil
}

// Keys returns every recognised setting key in display order.
func (s *SettingsService) Keys() []string {
	return SettingKeys()
}

// SettingKeys returns every recognised setting key in display order.
func SettingKeys() []string {
	keys := make([]string, 0, len(linkSettings))
	for _, st := range linkSettings {
		keys = append(keys, st.key)
	}
	return keys
}

// GetDefaults returns the default policy.
func (s *SettingsService) GetDefaults() domain.LinkPolicy {
	return domain.DefaultLinkPolicy()
}

// SettingValue formats the value of key in policy for display.
func SettingValue(policy *domain.LinkPolicy, key string) string {
	st, ok := lookupSetting(key)
	if !ok {
		return ""
	}
	switch v := st.get(policy).(type) {
	case []string:
		return strings.Join(v, ",")
	default:
		return fmt.Sprint(v)
	}
}

func lookupSetting(key string) (setting, bool) {
	key = strings.TrimSpace(key)
	if !strings.HasPrefix(key, "linking.") {
		key = "linking." + key
	}
	for _, st := range linkSettings {
		if st.key == key {
			return st, true
		}
	}
	return setting{}, false
}

// coerce converts a stored config value to the setting's Go type.
// TOML integers decode as int64 and arrays as []any.
func coerce(kind settingKind, raw any) (any, bool) {
	switch kind {
	case kindBool:
		b, ok := raw.(bool)
		return b, ok
	case kindInt:
		switch v := raw.(type) {
		case int:
			return v, true
		case int64:
			return int(v), true
		case float64:
			return int(v), true
		}
	case kindString:
		str, ok := raw.(string)
		return str, ok
	case kindList:
		switch v := raw.(type) {
		case []string:
			return v, true
		case []any:
			result := make([]string, 0, len(v))
			for _, item := range v {
				if str, ok := item.(string); ok {
					result = append(result, str)
				}
			}
			return result, true
		}
	}
	return nil, false
}

// parse converts command-line text to the setting's Go type.
func parse(kind settingKind, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case kindBool:
		return strconv.ParseBool(value)
	case kindInt:
		return strconv.Atoi(value)
	case kindList:
		result := []string{}
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				result = append(result, item)
			}
		}
		return result, nil
	default:
		return value, nil
	}
}

func relationNames(kinds []domain.RelationKind) []string {
	names := make([]string, 0, len(kinds))
	for _, k := range kinds {
		names = append(names, k.String())
	}
	return names
}

// relationKinds keeps unknown names so that validation reports them.
func relationKinds(names []string) []domain.RelationKind {
	if len(names) == 0 {
		return nil
	}
	kinds := make([]domain.RelationKind, 0, len(names))
	for _, name := range names {
		kinds = append(kinds, domain.RelationKind(strings.ToLower(strings.TrimSpace(name))))
	}
	return kinds
}

func nilIfEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
