package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/df07/go-wormhole-raytracer/pkg/core"
)

// BuiltInGroup is the group name for scenes constructed in code
const BuiltInGroup = "Built-in Scenes"

// ErrUnknownScene is returned when a scene id matches no builtin or file
var ErrUnknownScene = errors.New("unknown scene")

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the JSON file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

var builtins = map[string]func(seed int64) *Scene{
	"default":        NewDefaultScene,
	"furnace":        func(int64) *Scene { return NewFurnaceScene() },
	"portal-gallery": func(int64) *Scene { return NewPortalGalleryScene() },
}

// BuiltInIDs returns the ids of every builtin scene in sorted order
func BuiltInIDs() []string {
	ids := make([]string, 0, len(builtins))
	for id := range builtins {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// NewBuiltIn constructs a builtin scene by id
func NewBuiltIn(id string, seed int64) (*Scene, error) {
	build, ok := builtins[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
	}
	return build(seed), nil
}

// Resolve returns a builtin scene when ref names one, otherwise loads ref as a file path
func Resolve(ref string, seed int64, logger core.Logger) (*Scene, error) {
	if ref == "" {
		ref = "default"
	}
	if _, ok := builtins[ref]; ok {
		return NewBuiltIn(ref, seed)
	}
	if _, err := os.Stat(ref); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, ref)
	}
	return Load(ref, logger)
}

// ListSceneFiles scans dir for *.json scenes. A missing directory yields an empty list.
func ListSceneFiles(dir string, logger core.Logger) ([]SceneInfo, error) {
	if _, err := os.Stat(dir); err != nil {
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		info, err := ParseSceneMetadata(filePath)
		if err != nil {
			logger.Printf("Warning: failed to parse metadata for %s: %v", filePath, err)
			continue
		}
		scenes = append(scenes, info)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})
	return scenes, nil
}

// ParseSceneMetadata reads the name, description and group of a scene file
// without decoding its spheres
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	base := sceneName(filePath)
	info := SceneInfo{
		ID:          "file:" + base,
		Name:        titleCase(base),
		DisplayName: titleCase(base),
		Group:       "Scene Files",
		Type:        "file",
		FilePath:    filePath,
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return info, fmt.Errorf("failed to read %s: %w", filePath, err)
	}

	var header struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Group       string `json:"group"`
	}
	if err := json.Unmarshal(data, &header); err != nil {
		return info, fmt.Errorf("failed to parse %s: %w", filePath, err)
	}

	if header.Name != "" {
		info.Name = header.Name
		info.DisplayName = titleCase(header.Name)
	}
	info.Description = header.Description
	if header.Group != "" {
		info.Group = header.Group
	}
	return info, nil
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes(dir string, logger core.Logger) (ScenesResponse, error) {
	var response ScenesResponse

	var allScenes []SceneInfo
	for _, id := range BuiltInIDs() {
		s := builtins[id](0)
		allScenes = append(allScenes, SceneInfo{
			ID:          id,
			Name:        s.Name,
			DisplayName: titleCase(s.Name),
			Description: s.Description,
			Group:       BuiltInGroup,
			Type:        "builtin",
		})
	}

	fileScenes, err := ListSceneFiles(dir, logger)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	allScenes = append(allScenes, fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, info := range allScenes {
		groupMap[info.Group] = append(groupMap[info.Group], info)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != BuiltInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if group, exists := groupMap[BuiltInGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{Name: BuiltInGroup, Scenes: group})
	}
	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{Name: groupName, Scenes: groupMap[groupName]})
	}

	return response, nil
}

func sceneName(path string) string {
	filename := filepath.Base(path)
	return strings.TrimSuffix(filename, filepath.Ext(filename))
}

// titleCase converts a filename-style string to title case
// e.g., "portal-gallery" -> "Portal Gallery"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
	}

	return strings.Join(words, " ")
}
