package render

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Block vertex shader: instanced unit cubes. Per-vertex cube corner and
// normal, per-instance grid position and packed block attributes.
const blockVertSrc = `#version 410 core

layout(location = 0) in vec3 aVert;   // unit cube corner
layout(location = 1) in vec3 aNormal;
layout(location = 2) in vec3 aBlockPos;  // per instance
layout(location = 3) in vec4 aBlockAttr; // palette, orientation, shade, active

uniform mat4 uViewProj;
uniform vec3 uChunkPosition;

out vec3 vNormal;
flat out float vPalette;
out float vShade;
flat out float vActive;

void main() {
    // Rotate corner and normal around Y by orientation * 90 degrees.
    float a = aBlockAttr.y * 1.5707963;
    float c = cos(a);
    float s = sin(a);
    mat3 rot = mat3(c, 0.0, -s, 0.0, 1.0, 0.0, s, 0.0, c);
    vec3 corner = rot * (aVert - 0.5) + 0.5;

    vec3 worldPos = uChunkPosition + aBlockPos + corner;
    gl_Position = uViewProj * vec4(worldPos, 1.0);

    vNormal = rot * aNormal;
    vPalette = aBlockAttr.x;
    vShade = aBlockAttr.z;
    vActive = aBlockAttr.w;
}
` + "\x00"

// Opaque pass: fully shaded blocks only, inactive instances discarded.
const blockOpaqueFragSrc = `#version 410 core

uniform vec3 uPalette[64];

in vec3 vNormal;
flat in float vPalette;
in float vShade;
flat in float vActive;
out vec4 FragColor;

const vec3 lightDir = normalize(vec3(0.5, 1.0, 0.3));

void main() {
    if (vActive < 0.5 || vShade < 0.999) discard;
    vec3 base = uPalette[int(vPalette + 0.5)];
    float diffuse = 0.6 + 0.4 * max(dot(normalize(vNormal), lightDir), 0.0);
    FragColor = vec4(base * diffuse, 1.0);
}
` + "\x00"

// Transparent pass: partially shaded blocks, alpha from the shade lane.
// Runs after the opaque pass; order is load-bearing for blending.
const blockTransparentFragSrc = `#version 410 core

uniform vec3 uPalette[64];

in vec3 vNormal;
flat in float vPalette;
in float vShade;
flat in float vActive;
out vec4 FragColor;

const vec3 lightDir = normalize(vec3(0.5, 1.0, 0.3));

void main() {
    if (vActive < 0.5 || vShade >= 0.999) discard;
    vec3 base = uPalette[int(vPalette + 0.5)];
    float diffuse = 0.6 + 0.4 * max(dot(normalize(vNormal), lightDir), 0.0);
    FragColor = vec4(base * diffuse, vShade);
}
` + "\x00"

func compileShader(source string, shaderType uint32) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csources, free := gl.Strs(source)
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(buf))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("compile shader: %s", strings.TrimRight(buf, "\x00"))
	}
	return shader, nil
}

func linkProgram(vertSrc, fragSrc string) (uint32, error) {
	vs, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, err
	}
	fs, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vs)
		return 0, err
	}

	program := gl.CreateProgram()
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	gl.DeleteShader(vs)
	gl.DeleteShader(fs)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		buf := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(buf))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link program: %s", strings.TrimRight(buf, "\x00"))
	}
	return program, nil
}
