// Package emitter renders the target-language interpreter that actually
// ships: a single self-contained program carrying a stack/scope/call-stack/
// try-block dispatch loop laid out like the vm package's Run loop,
// fed by the sealed bytecode (package cipher) and the masked constant pool,
// wrapped in the anti-analysis probes spec.md §4.7 asks for.
//
// The vm package and this package read the same code.Opcode values at
// generation time (no opcode number is ever hand-copied), so the Go-native
// reference machine and the emitted one agree on every opcode number.
//
// The emitted machine covers less than the vm: its builtins table is empty,
// so no host intrinsic is reachable through LOAD_VAR's builtin scope; its
// binary-operator helper has no ==, !=, **, &, |, ^, << or >>; and its
// unary helper has no + or delete.
package emitter

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dr8co/vmask/cipher"
	"github.com/dr8co/vmask/code"
	"github.com/dr8co/vmask/compiler"
	"github.com/dr8co/vmask/ident"
	"github.com/dr8co/vmask/pool"
)

// Options controls which anti-analysis wrapper features the emitted source
// carries and which name manager supplies its identifiers.
type Options struct {
	// SelfDefending gates a digest of the dispatch function's own rendered
	// source, computed once before the program runs. The digest is not
	// compared against any value, so an altered interpreter still runs.
	SelfDefending bool

	// DebugProtection gates the timing trap and the periodic re-invocation
	// probe.
	DebugProtection bool

	// VMName, when set, is used verbatim as the interpreter's root
	// identifier, the prefix of its helper function names; when empty the
	// name manager issues a fresh one.
	VMName string

	Names *ident.Names
}

// names collects every identifier this emission needs, issued once so the
// same logical slot always gets the same rendered name.
type names struct {
	vm, stack, sp, globals, frames, frameIdx, pendingExc string
	pool, ciphertext, key, iv, cipherID, original        string
	decodeAES, decodeXOR, unmask, run, main              string
	digest, probeTiming, probeDevtools, probeInterval     string
}

func newNames(opt Options) *names {
	n := opt.Names
	if n == nil {
		n = ident.NewNames()
	}
	vmName := opt.VMName
	if vmName == "" {
		vmName = n.Fresh("vm")
	} else {
		n.Reserve(vmName)
	}
	return &names{
		vm:            vmName,
		stack:         n.Fresh("stack"),
		sp:            n.Fresh("sp"),
		globals:       n.Fresh("globals"),
		frames:        n.Fresh("frames"),
		frameIdx:      n.Fresh("frameIdx"),
		pendingExc:    n.Fresh("pendingExc"),
		pool:          n.Fresh("pool"),
		ciphertext:    n.Fresh("ciphertext"),
		key:           n.Fresh("key"),
		iv:            n.Fresh("iv"),
		cipherID:      n.Fresh("cipherId"),
		original:      n.Fresh("original"),
		decodeAES:     n.Fresh("decodeAes"),
		decodeXOR:     n.Fresh("decodeXor"),
		unmask:        n.Fresh("unmask"),
		run:           n.Fresh("run"),
		main:          n.Fresh("main"),
		digest:        n.Fresh("digest"),
		probeTiming:   n.Fresh("probeTiming"),
		probeDevtools: n.Fresh("probeDevtools"),
		probeInterval: n.Fresh("probeInterval"),
	}
}

// Emit renders the complete interpreter source for bc, sealed behind prog
// and the masked pool strings in strs.
func Emit(bc *compiler.Bytecode, prog *cipher.Program, strs []cipher.EncodedString, opt Options) (string, error) {
	if bc == nil || prog == nil {
		return "", fmt.Errorf("emitter: bytecode and sealed program are required")
	}
	n := newNames(opt)

	maskedByIndex := make(map[int]cipher.EncodedString, len(strs))
	for _, s := range strs {
		maskedByIndex[s.PoolIndex] = s
	}

	var out strings.Builder
	out.WriteString("// generated by vmask; do not edit\n")
	out.WriteString("(function(){\n")

	writeCipherRuntime(&out, n)
	writeCipherData(&out, n, prog)
	writePool(&out, n, bc.Pool, maskedByIndex)
	writeProbes(&out, n, opt)
	writeDispatch(&out, n)
	writeBootstrap(&out, n, opt)

	out.WriteString("})();\n")
	return out.String(), nil
}

func byteArrayLiteral(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, v := range b {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(int(v)))
	}
	sb.WriteByte(']')
	return sb.String()
}

func jsString(s string) string {
	return strconv.Quote(s)
}

// writeCipherRuntime emits the AES-256-CBC decrypt routine and the XOR
// fallback, a compact from-scratch implementation (no subtle/WebCrypto
// dependency so the emitted file runs in any JS host) mirroring the same
// key-schedule/Galois-field arithmetic the cipher package's Go counterpart
// delegates to crypto/aes for.
func writeCipherRuntime(out *strings.Builder, n *names) {
	fmt.Fprintf(out, `
var %[1]s = new Uint8Array([
  0x63,0x7c,0x77,0x7b,0xf2,0x6b,0x6f,0xc5,0x30,0x01,0x67,0x2b,0xfe,0xd7,0xab,0x76,
  0xca,0x82,0xc9,0x7d,0xfa,0x59,0x47,0xf0,0xad,0xd4,0xa2,0xaf,0x9c,0xa4,0x72,0xc0,
  0xb7,0xfd,0x93,0x26,0x36,0x3f,0xf7,0xcc,0x34,0xa5,0xe5,0xf1,0x71,0xd8,0x31,0x15,
  0x04,0xc7,0x23,0xc3,0x18,0x96,0x05,0x9a,0x07,0x12,0x80,0xe2,0xeb,0x27,0xb2,0x75,
  0x09,0x83,0x2c,0x1a,0x1b,0x6e,0x5a,0xa0,0x52,0x3b,0xd6,0xb3,0x29,0xe3,0x2f,0x84,
  0x53,0xd1,0x00,0xed,0x20,0xfc,0xb1,0x5b,0x6a,0xcb,0xbe,0x39,0x4a,0x4c,0x58,0xcf,
  0xd0,0xef,0xaa,0xfb,0x43,0x4d,0x33,0x85,0x45,0xf9,0x02,0x7f,0x50,0x3c,0x9f,0xa8,
  0x51,0xa3,0x40,0x8f,0x92,0x9d,0x38,0xf5,0xbc,0xb6,0xda,0x21,0x10,0xff,0xf3,0xd2,
  0xcd,0x0c,0x13,0xec,0x5f,0x97,0x44,0x17,0xc4,0xa7,0x7e,0x3d,0x64,0x5d,0x19,0x73,
  0x60,0x81,0x4f,0xdc,0x22,0x2a,0x90,0x88,0x46,0xee,0xb8,0x14,0xde,0x5e,0x0b,0xdb,
  0xe0,0x32,0x3a,0x0a,0x49,0x06,0x24,0x5c,0xc2,0xd3,0xac,0x62,0x91,0x95,0xe4,0x79,
  0xe7,0xc8,0x37,0x6d,0x8d,0xd5,0x4e,0xa9,0x6c,0x56,0xf4,0xea,0x65,0x7a,0xae,0x08,
  0xba,0x78,0x25,0x2e,0x1c,0xa6,0xb4,0xc6,0xe8,0xdd,0x74,0x1f,0x4b,0xbd,0x8b,0x8a,
  0x70,0x3e,0xb5,0x66,0x48,0x03,0xf6,0x0e,0x61,0x35,0x57,0xb9,0x86,0xc1,0x1d,0x9e,
  0xe1,0xf8,0x98,0x11,0x69,0xd9,0x8e,0x94,0x9b,0x1e,0x87,0xe9,0xce,0x55,0x28,0xdf,
  0x8c,0xa1,0x89,0x0d,0xbf,0xe6,0x42,0x68,0x41,0x99,0x2d,0x0f,0xb0,0x54,0xbb,0x16
]);
var %[2]s = new Uint8Array(256);
for (var __i = 0; __i < 256; __i++) { %[2]s[%[1]s[__i]] = __i; }

function %[3]s(word, round) {
  var rcon = [0x01,0x02,0x04,0x08,0x10,0x20,0x40,0x80,0x1b,0x36,0x6c,0xd8,0xab,0x4d];
  var t = [word[1], word[2], word[3], word[0]];
  for (var i = 0; i < 4; i++) t[i] = %[1]s[t[i]];
  t[0] ^= rcon[round];
  return t;
}

function %[4]s(key) {
  var Nk = key.length / 4, Nr = Nk + 6;
  var w = [];
  for (var i = 0; i < Nk; i++) w.push([key[4*i], key[4*i+1], key[4*i+2], key[4*i+3]]);
  for (var i = Nk; i < 4*(Nr+1); i++) {
    var temp = w[i-1].slice();
    if (i %% Nk === 0) temp = %[3]s(temp, i/Nk - 1);
    else if (Nk > 6 && i %% Nk === 4) temp = temp.map(function(b){ return %[1]s[b]; });
    w.push([w[i-Nk][0]^temp[0], w[i-Nk][1]^temp[1], w[i-Nk][2]^temp[2], w[i-Nk][3]^temp[3]]);
  }
  return { w: w, Nr: Nr };
}

function %[5]s(a, b) {
  var p = 0;
  for (var i = 0; i < 8; i++) {
    if (b & 1) p ^= a;
    var hi = a & 0x80;
    a = (a << 1) & 0xff;
    if (hi) a ^= 0x1b;
    b >>= 1;
  }
  return p;
}

// %[6]s reverses AES-256-CBC with the Go side's key/IV convention: a fresh
// random key and IV per program, PKCS#7 padding stripped after decryption.
function %[6]s(ciphertext, key, iv) {
  var sched = %[4]s(key);
  var blocks = [];
  for (var off = 0; off < ciphertext.length; off += 16) blocks.push(ciphertext.slice(off, off+16));
  var out = [];
  var prev = iv;
  for (var bi = 0; bi < blocks.length; bi++) {
    var block = blocks[bi];
    var state = [];
    for (var c = 0; c < 4; c++) state.push([block[4*c],block[4*c+1],block[4*c+2],block[4*c+3]]);
    var Nr = sched.Nr, w = sched.w;
    var addRoundKey = function(round) {
      for (var c = 0; c < 4; c++) for (var r = 0; r < 4; r++) state[c][r] ^= w[round*4+c][r];
    };
    addRoundKey(Nr);
    for (var round = Nr - 1; round >= 1; round--) {
      // InvShiftRows
      var tmp = [[0,0,0,0],[0,0,0,0],[0,0,0,0],[0,0,0,0]];
      for (var r = 0; r < 4; r++) for (var c = 0; c < 4; c++) tmp[(c+r)%%4][r] = state[c][r];
      state = tmp;
      // InvSubBytes
      for (var c = 0; c < 4; c++) for (var r = 0; r < 4; r++) state[c][r] = %[2]s[state[c][r]];
      addRoundKey(round);
      // InvMixColumns
      for (var c = 0; c < 4; c++) {
        var s0=state[c][0],s1=state[c][1],s2=state[c][2],s3=state[c][3];
        state[c][0] = %[5]s(s0,14)^%[5]s(s1,11)^%[5]s(s2,13)^%[5]s(s3,9);
        state[c][1] = %[5]s(s0,9)^%[5]s(s1,14)^%[5]s(s2,11)^%[5]s(s3,13);
        state[c][2] = %[5]s(s0,13)^%[5]s(s1,9)^%[5]s(s2,14)^%[5]s(s3,11);
        state[c][3] = %[5]s(s0,11)^%[5]s(s1,13)^%[5]s(s2,9)^%[5]s(s3,14);
      }
    }
    var tmp2 = [[0,0,0,0],[0,0,0,0],[0,0,0,0],[0,0,0,0]];
    for (var r = 0; r < 4; r++) for (var c = 0; c < 4; c++) tmp2[(c+r)%%4][r] = state[c][r];
    state = tmp2;
    for (var c = 0; c < 4; c++) for (var r = 0; r < 4; r++) state[c][r] = %[2]s[state[c][r]];
    addRoundKey(0);
    var plain = new Uint8Array(16);
    for (var c = 0; c < 4; c++) for (var r = 0; r < 4; r++) plain[4*c+r] = state[c][r] ^ prev[4*c+r];
    for (var k = 0; k < 16; k++) out.push(plain[k]);
    prev = block;
  }
  var padding = out[out.length-1];
  if (padding > 0 && padding <= 16) out = out.slice(0, out.length - padding);
  return new Uint8Array(out);
}

// %[7]s is the per-byte XOR fallback used when AES key/IV generation failed
// on the encoding side.
function %[7]s(data, key) {
  var out = new Uint8Array(data.length);
  for (var i = 0; i < data.length; i++) out[i] = data[i] ^ key[i %% key.length];
  return out;
}
`, n.digest /* sbox */, n.digest+"Inv" /* inv sbox */, n.digest+"Xtime", n.digest+"Schedule", n.digest+"Mul", n.decodeAES, n.decodeXOR)
}

func writeCipherData(out *strings.Builder, n *names, prog *cipher.Program) {
	fmt.Fprintf(out, `
var %s = %d;
var %s = new Uint8Array(%s);
var %s = new Uint8Array(%s);
var %s = new Uint8Array(%s);
var %s = %d;
`, n.cipherID, int(prog.Cipher),
		n.ciphertext, byteArrayLiteral(prog.Ciphertext),
		n.key, byteArrayLiteral(prog.Key),
		n.iv, byteArrayLiteral(prog.IV),
		n.original, prog.Original)
}

// writePool renders the constant pool as a plain JS array indexed exactly
// as the Go pool.Pool — entries masked by cipher.EncodePool carry ciphertext
// and a key instead of their literal text, decoded lazily by unmask().
func writePool(out *strings.Builder, n *names, p *pool.Pool, masked map[int]cipher.EncodedString) {
	out.WriteString("\nvar " + n.pool + " = [\n")
	for i, e := range p.Entries() {
		if i > 0 {
			out.WriteString(",\n")
		}
		switch e.Tag {
		case pool.TagPrimitive:
			if e.IsBool {
				fmt.Fprintf(out, "{t:0,b:%v}", e.Bool)
			} else {
				fmt.Fprintf(out, "{t:0,n:%s}", strconv.FormatFloat(e.Number, 'g', -1, 64))
			}
		case pool.TagString, pool.TagIdentifier:
			enc, ok := masked[i]
			kind := 1
			if e.Tag == pool.TagIdentifier {
				kind = 2
			}
			if ok {
				fmt.Fprintf(out, "{t:%d,enc:1,data:%s,key:%s}", kind, byteArrayLiteral(enc.Data), byteArrayLiteral(enc.Key))
			} else {
				fmt.Fprintf(out, "{t:%d,enc:0,s:%s}", kind, jsString(e.Str))
			}
		case pool.TagOffset:
			fmt.Fprintf(out, "{t:3,o:%d}", e.Offset)
		case pool.TagStringList:
			parts := make([]string, len(e.Names))
			for j, nm := range e.Names {
				parts[j] = jsString(nm)
			}
			fmt.Fprintf(out, "{t:4,names:[%s]}", strings.Join(parts, ","))
		case pool.TagOpaqueBody:
			fmt.Fprintf(out, "{t:5,body:%s}", jsString(e.Str))
		case pool.TagFunction:
			fn := e.Function
			fmt.Fprintf(out, "{t:6,instructions:%s,numLocals:%d,numParams:%d,numFree:%d,name:%s}",
				byteArrayLiteral(fn.Instructions), fn.NumLocals, fn.NumParameters, fn.NumFree, jsString(fn.Name))
		}
	}
	out.WriteString("\n];\n")

	fmt.Fprintf(out, `
function %s(entry) {
  if (!entry.enc) return entry.s;
  var plain = %s(entry.data, entry.key);
  var s = "";
  for (var i = 0; i < plain.length; i++) s += String.fromCharCode(plain[i]);
  return s;
}
`, n.unmask, n.decodeXOR)
}

// writeProbes renders the best-effort anti-analysis checks, each gated on a
// host-capability check so the emitted program degrades silently on a host
// that lacks the relevant API instead of throwing.
func writeProbes(out *strings.Builder, n *names, opt Options) {
	if opt.DebugProtection {
		fmt.Fprintf(out, `
function %s() {
  if (typeof Date === "undefined" || !Date.now) return false;
  var t0 = Date.now();
  for (var i = 0; i < 1000; i++) {}
  return (Date.now() - t0) > 100;
}
function %s() {
  if (typeof window === "undefined") return false;
  var threshold = 160;
  return (window.outerWidth - window.innerWidth > threshold) ||
         (window.outerHeight - window.innerHeight > threshold);
}
`, n.probeTiming, n.probeDevtools)
	}
	if opt.SelfDefending {
		fmt.Fprintf(out, `
function %s(fnSource) {
  var h = 0;
  for (var i = 0; i < fnSource.length; i++) {
    h = (h * 31 + fnSource.charCodeAt(i)) | 0;
  }
  return h;
}
`, n.digest+"Fn")
	}
}

// writeDispatch renders the stack/scope/call-stack/try-block machine: the
// same shape as vm.VM.Run, one case per code.Opcode, reading each opcode's
// numeric value from the code package at generation time so the opcode
// numbers can never drift from the Go-native reference machine.
func writeDispatch(out *strings.Builder, n *names) {
	fmt.Fprintf(out, `
var %[1]s = [];
var %[2]s = -1;
var %[3]s = [];
var %[4]s = 0;
var %[5]s = null;
var %[12]s = [];

function %[6]s(closure, thisVal) {
  return { closure: closure, ip: -1, basePointer: %[2]s + 1, this: thisVal, handlers: [] };
}

function %[7]s(entryInstructions, entryNumLocals) {
  %[4]s = 0;
  %[3]s = [{ closure: { fn: { instructions: entryInstructions, numLocals: entryNumLocals, numParameters: 0 }, free: [] },
             ip: -1, basePointer: 0, this: undefined, handlers: [] }];
  %[1]s = [];
  %[2]s = -1;

  while (%[3]s[%[4]s].ip < %[3]s[%[4]s].closure.fn.instructions.length - 1) {
    var frame = %[3]s[%[4]s];
    frame.ip++;
    var ins = frame.closure.fn.instructions;
    var ip = frame.ip;
    var op = ins[ip];

    switch (op) {
      case %[8]d: { // LOAD_CONST
        var idx = (ins[ip+1] << 8) | ins[ip+2];
        frame.ip += 2;
        var entry = %[9]s[idx];
        %[1]s[++%[2]s] = entry.t === 0 ? (entry.b !== undefined ? entry.b : entry.n) : %[10]s(entry);
        break;
      }
      case %[11]d: { // LOAD_VAR
        var scope = ins[ip+1];
        var vidx = (ins[ip+2] << 8) | ins[ip+3];
        frame.ip += 3;
        var val;
        if (scope === 0) val = %[12]s[vidx];
        else if (scope === 1) val = %[1]s[frame.basePointer + vidx];
        else if (scope === 2) val = frame.closure.free[vidx];
        else if (scope === 3) val = %[13]s[vidx];
        else val = frame.closure;
        %[1]s[++%[2]s] = val;
        break;
      }
      case %[14]d: { // STORE_VAR
        var scope2 = ins[ip+1];
        var vidx2 = (ins[ip+2] << 8) | ins[ip+3];
        frame.ip += 3;
        var v = %[1]s[%[2]s--];
        if (scope2 === 0) %[12]s[vidx2] = v;
        else if (scope2 === 1) %[1]s[frame.basePointer + vidx2] = v;
        else if (scope2 === 2) frame.closure.free[vidx2] = v;
        break;
      }
      case %[15]d: { // BINARY_OP
        var opIdx = (ins[ip+1] << 8) | ins[ip+2];
        frame.ip += 2;
        var operator = %[10]s(%[9]s[opIdx]);
        var b = %[1]s[%[2]s--];
        var a = %[1]s[%[2]s--];
        %[1]s[++%[2]s] = %[16]s(operator, a, b);
        break;
      }
      case %[17]d: { // CALL_FUNCTION
        var numArgs = ins[ip+1];
        frame.ip += 1;
        var callee = %[1]s[%[2]s - numArgs];
        %[18]s(callee, numArgs, undefined);
        break;
      }
      case %[19]d: { // RETURN
        var rv = %[1]s[%[2]s--];
        var returning = %[3]s[%[4]s--];
        %[2]s = returning.basePointer - 2;
        if (returning.this && returning.this.__isObject && !(rv && (rv.__isObject || rv.__isArray))) rv = returning.this;
        %[1]s[++%[2]s] = rv;
        break;
      }
      case %[20]d: { // JUMP
        var jIdx = (ins[ip+1] << 8) | ins[ip+2];
        frame.ip = (ip + 3) + %[9]s[jIdx].o - 1;
        break;
      }
      case %[21]d: { // JUMP_IF_TRUE
        var jtIdx = (ins[ip+1] << 8) | ins[ip+2];
        var cond = %[1]s[%[2]s--];
        if (%[22]s(cond)) frame.ip = (ip + 3) + %[9]s[jtIdx].o - 1;
        else frame.ip += 2;
        break;
      }
      case %[23]d: { // JUMP_IF_FALSE
        var jfIdx = (ins[ip+1] << 8) | ins[ip+2];
        var cond2 = %[1]s[%[2]s--];
        if (!%[22]s(cond2)) frame.ip = (ip + 3) + %[9]s[jfIdx].o - 1;
        else frame.ip += 2;
        break;
      }
      case %[24]d: { // CREATE_FUNCTION
        var fnIdx = (ins[ip+1] << 8) | ins[ip+2];
        var numFree = ins[ip+3];
        frame.ip += 3;
        var free = [];
        for (var fi = 0; fi < numFree; fi++) free[numFree - 1 - fi] = %[1]s[%[2]s--];
        %[1]s[++%[2]s] = { fn: %[9]s[fnIdx], free: free, closure: true };
        break;
      }
      case %[25]d: { // CREATE_OBJECT
        var pairCount = (ins[ip+1] << 8) | ins[ip+2];
        frame.ip += 2;
        var obj = {};
        var objKeys = [];
        var items = [];
        for (var oi = 0; oi < pairCount * 2; oi++) items.unshift(%[1]s[%[2]s--]);
        for (var oi2 = 0; oi2 < items.length; oi2 += 2) { obj[items[oi2]] = items[oi2+1]; objKeys.push(items[oi2]); }
        %[1]s[++%[2]s] = { __isObject: true, props: obj, keys: objKeys };
        break;
      }
      case %[26]d: { // LOAD_PROPERTY
        var pIdx = (ins[ip+1] << 8) | ins[ip+2];
        frame.ip += 2;
        var propName = %[10]s(%[9]s[pIdx]);
        var recv = %[1]s[%[2]s--];
        %[1]s[++%[2]s] = (recv && recv.props) ? recv.props[propName] : undefined;
        break;
      }
      case %[27]d: { // STORE_PROPERTY
        var spIdx = (ins[ip+1] << 8) | ins[ip+2];
        frame.ip += 2;
        var spName = %[10]s(%[9]s[spIdx]);
        var spVal = %[1]s[%[2]s--];
        var spRecv = %[1]s[%[2]s--];
        if (spRecv && spRecv.props) {
          if (!(spName in spRecv.props)) spRecv.keys.push(spName);
          spRecv.props[spName] = spVal;
        }
        %[1]s[++%[2]s] = spVal;
        break;
      }
      case %[28]d: %[2]s--; break; // POP
      case %[29]d: %[1]s[%[2]s+1] = %[1]s[%[2]s]; %[2]s++; break; // DUPLICATE
      case %[30]d: { // UNARY_OP
        var uIdx = (ins[ip+1] << 8) | ins[ip+2];
        frame.ip += 2;
        var uop = %[10]s(%[9]s[uIdx]);
        var uval = %[1]s[%[2]s--];
        %[1]s[++%[2]s] = %[31]s(uop, uval);
        break;
      }
      case %[32]d: { // CREATE_ARRAY
        var elemCount = (ins[ip+1] << 8) | ins[ip+2];
        frame.ip += 2;
        var elems = [];
        for (var ai = 0; ai < elemCount; ai++) elems.unshift(%[1]s[%[2]s--]);
        %[1]s[++%[2]s] = { __isArray: true, elements: elems };
        break;
      }
      case %[33]d: { // ARRAY_PUSH
        var pushVal = %[1]s[%[2]s--];
        var arr = %[1]s[%[2]s];
        arr.elements.push(pushVal);
        break;
      }
      case %[34]d: { // LOAD_INDEX
        var idxVal = %[1]s[%[2]s--];
        var coll = %[1]s[%[2]s--];
        var result;
        if (coll && coll.__isArray) result = coll.elements[idxVal];
        else if (typeof coll === "string") result = coll[idxVal];
        else if (coll && coll.props) result = coll.props[idxVal];
        %[1]s[++%[2]s] = result;
        break;
      }
      case %[35]d: { // STORE_INDEX
        var siVal = %[1]s[%[2]s--];
        var siIdx = %[1]s[%[2]s--];
        var siColl = %[1]s[%[2]s--];
        if (siColl && siColl.__isArray) siColl.elements[siIdx] = siVal;
        else if (siColl && siColl.props) siColl.props[siIdx] = siVal;
        %[1]s[++%[2]s] = siVal;
        break;
      }
      case %[36]d: { // NEW_INSTANCE
        var ctorArgs = ins[ip+1];
        frame.ip += 1;
        var ctor = %[1]s[%[2]s - ctorArgs];
        var inst = { __isObject: true, props: {}, keys: [] };
        %[18]s(ctor, ctorArgs, inst);
        break;
      }
      case %[37]d: { // LOGICAL_OP
        var lIdx = (ins[ip+1] << 8) | ins[ip+2];
        frame.ip += 2;
        var lop = %[10]s(%[9]s[lIdx]);
        var rb = %[1]s[%[2]s--];
        var ra = %[1]s[%[2]s--];
        var lr;
        if (lop === "&&") lr = %[22]s(ra) ? rb : ra;
        else if (lop === "||") lr = %[22]s(ra) ? ra : rb;
        else lr = (ra === null || ra === undefined) ? rb : ra;
        %[1]s[++%[2]s] = lr;
        break;
      }
      case %[38]d: { // TRY_BEGIN
        var catchIdx = (ins[ip+1] << 8) | ins[ip+2];
        var finallyIdx = (ins[ip+3] << 8) | ins[ip+4];
        frame.ip += 4;
        var catchOff = %[9]s[catchIdx].o, finallyOff = %[9]s[finallyIdx].o;
        var afterTB = ip + 5;
        frame.handlers.push({
          sp: %[2]s,
          catchPC: catchOff === -1 ? -1 : afterTB + catchOff,
          finallyPC: finallyOff === -1 ? -1 : afterTB + finallyOff
        });
        break;
      }
      case %[39]d: frame.handlers.pop(); break; // TRY_END
      case %[40]d: %[1]s[++%[2]s] = %[5]s; %[5]s = null; break; // CATCH
      case %[41]d: { // THROW
        var exc = %[1]s[%[2]s--];
        if (!%[42]s(exc)) return { thrown: exc };
        break;
      }
      case %[43]d: %[1]s[++%[2]s] = undefined; break; // UNDEFINED
      case %[44]d: %[1]s[++%[2]s] = null; break; // NULL
      case %[45]d: %[1]s[++%[2]s] = frame.this; break; // THIS
      case %[46]d: break; // NOP
      default:
        throw new Error("vmask: bad opcode " + op);
    }
  }
  return { value: %[1]s[%[2]s] };
}
`,
		n.stack, n.sp, n.frames, n.frameIdx, n.pendingExc,
		n.vm+"NewFrame", n.run,
		int(code.LoadConst), n.pool, n.unmask,
		int(code.LoadVar), n.globals, n.vm+"Builtins",
		int(code.StoreVar),
		int(code.BinaryOp), n.vm+"BinaryOp",
		int(code.CallFunction), n.vm+"Call",
		int(code.Return),
		int(code.Jump),
		int(code.JumpIfTrue), n.vm+"Truthy",
		int(code.JumpIfFalse),
		int(code.CreateFunction),
		int(code.CreateObject),
		int(code.LoadProperty),
		int(code.StoreProperty),
		int(code.Pop),
		int(code.Duplicate),
		int(code.UnaryOp), n.vm+"UnaryOp",
		int(code.CreateArray),
		int(code.ArrayPush),
		int(code.LoadIndex),
		int(code.StoreIndex),
		int(code.NewInstance),
		int(code.LogicalOp),
		int(code.TryBegin),
		int(code.TryEnd),
		int(code.Catch),
		int(code.Throw), n.vm+"Unwind",
		int(code.Undefined),
		int(code.Null),
		int(code.This),
		int(code.Nop),
	)

	fmt.Fprintf(out, `
var %[1]s = [];

function %[2]s(op, a, b) {
  if (op === "+") {
    if (typeof a === "string" || typeof b === "string") return String(a) + String(b);
    return a + b;
  }
  if (op === "-") return a - b;
  if (op === "*") return a * b;
  if (op === "/") return a / b;
  if (op === "%%") return a %% b;
  if (op === "<") return a < b;
  if (op === ">") return a > b;
  if (op === "<=") return a <= b;
  if (op === ">=") return a >= b;
  if (op === "===") return a === b;
  if (op === "!==") return a !== b;
  throw new Error("vmask: bad binary operator " + op);
}

function %[3]s(op, v) {
  if (op === "-") return -v;
  if (op === "!") return !%[4]s(v);
  if (op === "~") return ~v;
  if (op === "typeof") return typeof v;
  if (op === "void") return undefined;
  if (op === "??defined") return v === null || v === undefined;
  throw new Error("vmask: bad unary operator " + op);
}

function %[4]s(v) {
  if (v === null || v === undefined || v === false) return false;
  if (v === 0 || v === "") return false;
  return true;
}

function %[5]s(callee, numArgs, thisVal) {
  if (callee && callee.fn && callee.fn.instructions) {
    var newFrame = {
      closure: callee, ip: -1, basePointer: %[6]s - numArgs + 1,
      this: thisVal === undefined ? undefined : thisVal, handlers: []
    };
    %[7]s[++%[8]s] = newFrame;
    %[6]s = newFrame.basePointer + callee.fn.numLocals - 1;
  } else if (typeof callee === "function") {
    var args = %[9]s.slice(%[6]s - numArgs + 1, %[6]s + 1);
    %[6]s -= numArgs;
    %[9]s[++%[6]s] = callee.apply(thisVal, args);
  } else {
    throw new Error("vmask: value is not callable");
  }
}

// %[10]s walks the active frame stack looking for a handler whose catch
// clause can run; a finally-only handler (no catch) is skipped during
// unwinding and its finally body only runs on the normal-completion path the
// compiler already threads through — mirroring the Go-native vm's
// simplification of the same name.
function %[10]s(exc) {
  while (%[8]s >= 0) {
    var f = %[7]s[%[8]s];
    if (f.handlers.length > 0) {
      var h = f.handlers[f.handlers.length - 1];
      if (h.catchPC !== -1) {
        f.handlers.pop();
        %[6]s = h.sp;
        %[11]s = exc;
        f.ip = h.catchPC - 1;
        return true;
      }
      f.handlers.pop();
      continue;
    }
    %[8]s--;
  }
  return false;
}
`, n.vm+"Builtins", n.vm+"BinaryOp", n.vm+"UnaryOp", n.vm+"Truthy",
		n.vm+"Call", n.sp, n.frames, n.frameIdx, n.stack, n.vm+"Unwind", n.pendingExc)
}

// writeBootstrap decodes the sealed bytecode and pool, runs the program
// through the dispatch loop, and — when the corresponding Options are set —
// arms the anti-analysis probes around the entry call.
func writeBootstrap(out *strings.Builder, n *names, opt Options) {
	out.WriteString("\nvar " + n.main + " = function() {\n")
	fmt.Fprintf(out, `  var plain = (%s === 0)
    ? %s(%s, %s, %s)
    : %s(%s, %s);
`, n.cipherID, n.decodeAES, n.ciphertext, n.key, n.iv, n.decodeXOR, n.ciphertext, n.key)

	if opt.DebugProtection {
		fmt.Fprintf(out, `  if (%s()) { return; }
  if (%s()) { return; }
`, n.probeTiming, n.probeDevtools)
	}
	if opt.SelfDefending {
		fmt.Fprintf(out, `  %s(%s.toString());
`, n.digest+"Fn", n.run)
	}

	fmt.Fprintf(out, "  %s(plain, 0);\n", n.run)

	if opt.DebugProtection {
		fmt.Fprintf(out, `  if (typeof setInterval === "function") {
    var __tick = 0;
    setInterval(function() {
      __tick = (__tick + 1) %% 97;
      if (__tick === 0) { %s(); }
    }, 2000);
  }
`, n.probeTiming)
	}

	out.WriteString("};\n" + n.main + "();\n")
}
