package collider3d

// SelectByMaterial returns the objects of src whose first material slot is named
// materialName, in source order. Objects without materials never match, and a name
// missing from the material registry yields an empty result.
func SelectByMaterial(src SceneObjectSource, materialName string) []SceneObject {
	if !src.HasMaterial(materialName) {
		return []SceneObject{}
	}

	result := []SceneObject{}
	for _, obj := range src.Objects() {
		if name, ok := FirstMaterial(obj); ok && name == materialName {
			result = append(result, obj)
		}
	}
	return result
}
