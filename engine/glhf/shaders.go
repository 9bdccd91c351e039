package glhf

const chunkVertexShaderSource = `
#version 330 core

in ivec3 position;
in uint info;

uniform mat4 projectionView;

flat out uint material;
out float ambientOcclusion;
out float height;

void main() {
    material = info & 0xFFu;
    ambientOcclusion = float((info >> 8) & 0x3u) / 3.0;
    height = float(position.y);
    gl_Position = projectionView * vec4(vec3(position), 1.0);
}
`

const chunkFragmentShaderSource = `
#version 330 core

flat in uint material;
in float ambientOcclusion;
in float height;

uniform vec4 tint;

out vec4 color;

vec3 palette(uint index) {
    float hue = float(index % 16u) / 16.0;
    return 0.5 + 0.5 * cos(6.28318 * (vec3(hue) + vec3(0.0, 0.33, 0.67)));
}

void main() {
    float shade = mix(0.55, 1.0, 1.0 - ambientOcclusion) * mix(0.8, 1.0, clamp(height / 256.0, 0.0, 1.0));
    color = vec4(palette(material) * shade, 1.0) * tint;
}
`

const solidVertexShaderSource = `
#version 330 core

in vec3 position;

uniform mat4 projectionView;
uniform mat4 model;

void main() {
    gl_Position = projectionView * model * vec4(position, 1.0);
}
`

const solidFragmentShaderSource = `
#version 330 core

uniform vec4 color;

out vec4 fragColor;

void main() {
    fragColor = color;
}
`
