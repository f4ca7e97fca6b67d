package services

import (
	"context"
	"log"
	"sort"

	"github.com/shopweave/plugin-engine/data"
	"github.com/shopweave/plugin-engine/internal/models"
)

// DependencyBundle is a third-party package a plugin ships for its widgets.
type DependencyBundle struct {
	PluginID    string `json:"pluginId"`
	PackageName string `json:"packageName"`
	Version     string `json:"version"`
	BundledCode string `json:"bundledCode"`
}

// ResolvedSlot is one node of the final render tree.
type ResolvedSlot struct {
	models.SlotNode
	Widget      *WidgetDefinition `json:"widget,omitempty"`
	Placeholder bool              `json:"placeholder,omitempty"`
	Note        string            `json:"note,omitempty"`
}

// ResolveResult is what the rendering layer consumes.
type ResolveResult struct {
	Tree         []ResolvedSlot     `json:"tree"`
	Dependencies []DependencyBundle `json:"dependencies"`
	Placeholders []string           `json:"placeholders"`
}

// CompositionResolver merges slot configuration, the widget registry, and
// per-plugin dependency bundles into an ordered render tree. It executes per
// request over a read-only registry snapshot; requests resolve concurrently
// and independently.
type CompositionResolver struct {
	Slots      *SlotConfigurationStore
	Widgets    *WidgetRegistry
	Artifacts  *CodeArtifactStore
	Plugins    *PluginRegistry
	Runtime    *ControllerRuntime
	Production bool
}

// NewCompositionResolver wires the resolver.
func NewCompositionResolver(slots *SlotConfigurationStore, widgets *WidgetRegistry, artifacts *CodeArtifactStore, plugins *PluginRegistry, runtime *ControllerRuntime, production bool) *CompositionResolver {
	return &CompositionResolver{
		Slots:      slots,
		Widgets:    widgets,
		Artifacts:  artifacts,
		Plugins:    plugins,
		Runtime:    runtime,
		Production: production,
	}
}

// Resolve produces the ordered render tree for (storeId, pageType, viewport).
// published selects the live configuration; false resolves the draft for
// editor previews. A dangling widgetId degrades its slot to a placeholder and
// never fails the page.
func (r *CompositionResolver) Resolve(ctx context.Context, storeID, pageType, viewport string, published bool) (*ResolveResult, error) {
	cfg, err := r.loadConfiguration(storeID, pageType, published)
	if err != nil {
		return nil, err
	}

	nodes := mergeViewport(cfg, viewport)
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Position.Row != nodes[j].Position.Row {
			return nodes[i].Position.Row < nodes[j].Position.Row
		}
		if nodes[i].Position.Col != nodes[j].Position.Col {
			return nodes[i].Position.Col < nodes[j].Position.Col
		}
		return nodes[i].ID < nodes[j].ID
	})

	result := &ResolveResult{
		Tree:         make([]ResolvedSlot, 0, len(nodes)),
		Dependencies: make([]DependencyBundle, 0),
		Placeholders: make([]string, 0),
	}

	pluginSeen := make(map[string]bool)
	pluginOrder := make([]string, 0)
	for _, node := range nodes {
		resolved := ResolvedSlot{SlotNode: node}
		if node.WidgetID != "" {
			if def, ok := r.Widgets.GetWidget(node.WidgetID); ok {
				resolved.Widget = &def
				if !pluginSeen[def.PluginID] {
					pluginSeen[def.PluginID] = true
					pluginOrder = append(pluginOrder, def.PluginID)
				}
			} else {
				resolved.Placeholder = true
				if !r.Production {
					resolved.Note = "widget " + node.WidgetID + " is not registered"
				}
				result.Placeholders = append(result.Placeholders, node.ID)
			}
		}
		result.Tree = append(result.Tree, resolved)
	}

	deps, err := r.collectDependencies(pluginOrder)
	if err != nil {
		return nil, err
	}
	result.Dependencies = deps

	return result, nil
}

// loadConfiguration reads the requested version. A corrupt published payload
// is fatal to that row only: resolution falls back to the page-type default
// template instead of rendering nothing.
func (r *CompositionResolver) loadConfiguration(storeID, pageType string, published bool) (*models.PageConfiguration, error) {
	if !published {
		_, cfg, err := r.Slots.GetDraft(storeID, pageType)
		return cfg, err
	}

	row, err := r.Slots.GetPublished(storeID, pageType)
	if err != nil {
		return nil, err
	}
	cfg, err := models.DecodeConfiguration(row)
	if err != nil {
		log.Printf("Published configuration for %s/%s is corrupt (%v); falling back to default %s template",
			storeID, pageType, err, pageType)
		fallback := &models.SlotConfiguration{
			StoreID:       storeID,
			PageType:      pageType,
			Status:        models.ConfigStatusPublished,
			Configuration: models.NewJSON(data.DefaultTemplate(pageType)),
		}
		return models.DecodeConfiguration(fallback)
	}
	return cfg, nil
}

// mergeViewport layers the viewport's overrides on top of the base slots.
// Overrides for ids absent from the base are additive.
func mergeViewport(cfg *models.PageConfiguration, viewport string) []models.SlotNode {
	merged := make(map[string]models.SlotNode, len(cfg.Slots))
	for id, node := range cfg.Slots {
		merged[id] = node
	}
	if viewport != "" {
		for id, node := range cfg.Viewports[viewport] {
			merged[id] = node
		}
	}

	nodes := make([]models.SlotNode, 0, len(merged))
	for _, node := range merged {
		nodes = append(nodes, node)
	}
	return nodes
}

// collectDependencies fetches the dependency artifacts of the resolved
// plugins, deduplicated by (pluginId, packageName) so a bundle is never
// emitted twice for one page.
func (r *CompositionResolver) collectDependencies(pluginIDs []string) ([]DependencyBundle, error) {
	bundles := make([]DependencyBundle, 0)
	if len(pluginIDs) == 0 {
		return bundles, nil
	}

	deps, err := r.Artifacts.ListDependencies(pluginIDs)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(deps))
	for _, dep := range deps {
		key := dep.PluginID + ":" + dep.PackageName
		if seen[key] {
			continue
		}
		seen[key] = true
		bundles = append(bundles, DependencyBundle{
			PluginID:    dep.PluginID,
			PackageName: dep.PackageName,
			Version:     dep.PackageVersion,
			BundledCode: dep.BundledCode,
		})
	}
	return bundles, nil
}

// InvokeController resolves the owning plugin and the controller artifact,
// then runs it through the sandboxed runtime. Lookup failures return an
// error; execution failures come back inside the result payload.
func (r *CompositionResolver) InvokeController(ctx context.Context, pluginID, controllerName string, req *ControllerRequest) (*ControllerResult, error) {
	if _, err := r.Plugins.Resolve(pluginID); err != nil {
		return nil, err
	}
	artifact, err := r.Artifacts.GetController(pluginID, controllerName)
	if err != nil {
		return nil, err
	}
	return r.Runtime.Invoke(ctx, artifact, req), nil
}
