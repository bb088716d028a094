package renderer

const lineVertexSrc = `
#version 410 core

layout (location = 0) in vec3 aPos;

uniform mat4 uMVP;

void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
}
`

const lineFragmentSrc = `
#version 410 core

uniform vec4 uColor;
out vec4 FragColor;

void main() {
	FragColor = uColor;
}
`

const quadVertexSrc = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;

out vec2 vUV;

void main() {
	gl_Position = vec4(aPos, 0.0, 1.0);
	vUV = aUV;
}
`

// Textures hold premultiplied alpha, so the tint scales all four channels.
const quadFragmentSrc = `
#version 410 core

in vec2 vUV;
uniform sampler2D uTexture;
uniform vec4 uTint;
out vec4 FragColor;

void main() {
	FragColor = texture(uTexture, vUV) * uTint;
}
`
