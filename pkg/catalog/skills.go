package catalog

import (
	"crypto/sha256"
	"encoding/hex"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nbench/envprofile/pkg/types"
)

// Skill visibility scopes.
const (
	ScopeGlobal  = "global"
	ScopeProject = "project"
	ScopeBoth    = "both"
)

// HashSkillFolder computes the content fingerprint for a skill folder: a
// SHA-256 over the sorted list of file names and byte contents. The walk
// order is sorted before hashing, so the fingerprint is deterministic
// across machines with identical contents regardless of directory
// enumeration order. An empty folder hashes its own name.
func HashSkillFolder(root string) string {
	var files []string
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		files = append(files, path)
		return nil
	})
	sort.Strings(files)

	digest := sha256.New()
	if len(files) == 0 {
		digest.Write([]byte(filepath.Base(root)))
	}
	for _, path := range files {
		digest.Write([]byte(filepath.Base(path)))
		content, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		digest.Write(content)
	}
	return hex.EncodeToString(digest.Sum(nil))
}

// DiscoverSkills enumerates skill folders visible under the requested
// scope. Skills present at multiple scopes with identical content are
// deduplicated by (name, fingerprint) with their scopes merged; the same
// name with different content stays as distinct entries.
func DiscoverSkills(scope, cwd, home string) []types.SkillInfo {
	type root struct {
		scope string
		path  string
	}
	var roots []root
	if scope == ScopeGlobal || scope == ScopeBoth {
		roots = append(roots, root{ScopeGlobal, filepath.Join(home, ".claude", "skills")})
	}
	if scope == ScopeProject || scope == ScopeBoth {
		roots = append(roots, root{ScopeProject, filepath.Join(cwd, ".claude", "skills")})
	}

	deduped := make(map[string]*types.SkillInfo)
	for _, r := range roots {
		entries, err := os.ReadDir(r.path)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			name := entry.Name()
			fingerprint := HashSkillFolder(filepath.Join(r.path, name))
			key := strings.ToLower(name) + "::" + fingerprint

			if existing, ok := deduped[key]; ok {
				existing.Scopes = mergeScopes(existing.Scopes, r.scope)
				continue
			}
			deduped[key] = &types.SkillInfo{
				Name:   name,
				Hash:   fingerprint,
				Scopes: []string{r.scope},
			}
		}
	}

	skills := make([]types.SkillInfo, 0, len(deduped))
	for _, info := range deduped {
		skills = append(skills, *info)
	}
	sort.Slice(skills, func(i, j int) bool {
		ni, nj := strings.ToLower(skills[i].Name), strings.ToLower(skills[j].Name)
		if ni != nj {
			return ni < nj
		}
		return skills[i].Hash < skills[j].Hash
	})
	return skills
}

func mergeScopes(scopes []string, scope string) []string {
	for _, s := range scopes {
		if s == scope {
			return scopes
		}
	}
	out := append(append([]string(nil), scopes...), scope)
	sort.Strings(out)
	return out
}
