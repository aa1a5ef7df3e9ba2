package device

// Terrain shader: the unit patch grid is placed with quad_min/quad_size and
// morphed toward the coarser level between the inner and outer blend radii
// so LOD seams stay continuous.
const terrainVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uProj;
uniform mat4 uView;
uniform vec3 morph_const;
uniform float quad_size;
uniform vec3 quad_min;
uniform float map_size;
uniform vec3 camera_pos;
uniform sampler2D uHeightmap;
uniform float uYScale;

out vec2 vUV;

void main() {
	vec3 pos = quad_min + aPos * quad_size;
	float dist = distance(camera_pos.xz, pos.xz);
	float outer = morph_const.x;
	float inner = morph_const.y;
	float morph = clamp((dist - inner) / max(outer - inner, 0.001), 0.0, 1.0);

	// Snap odd grid steps toward the even (coarser) grid as morph rises.
	float step = quad_size / 16.0;
	vec2 grid = pos.xz / step;
	vec2 snapped = floor(grid / 2.0) * 2.0;
	pos.xz = mix(pos.xz, snapped * step, morph * fract(grid / 2.0) * 2.0);

	vUV = pos.xz / map_size;
	float height = texture(uHeightmap, vUV).r * uYScale;
	pos.y = height;
	gl_Position = uProj * uView * vec4(pos, 1.0);
}
`

const terrainFragmentShader = `
#version 410 core

in vec2 vUV;
uniform sampler2D uHeightmap;
out vec4 FragColor;

void main() {
	FragColor = vec4(texture(uHeightmap, vUV).rgb, 1.0);
}
`

const modelVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uProj;
uniform mat4 uView;
uniform mat4 uModel;
uniform float uScale;

void main() {
	gl_Position = uProj * uView * uModel * vec4(aPos * uScale, 1.0);
}
`

const modelFragmentShader = `
#version 410 core

uniform sampler2D uTexture;
out vec4 FragColor;

void main() {
	FragColor = texture(uTexture, vec2(0.5, 0.5));
}
`

const lineVertexShader = `
#version 410 core

layout (location = 0) in vec3 aPos;
layout (location = 1) in vec3 aColor;

uniform mat4 uProj;
uniform mat4 uView;

out vec3 vColor;

void main() {
	vColor = aColor;
	gl_Position = uProj * uView * vec4(aPos, 1.0);
}
`

const lineFragmentShader = `
#version 410 core

in vec3 vColor;
out vec4 FragColor;

void main() {
	FragColor = vec4(vColor, 1.0);
}
`
