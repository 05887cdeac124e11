package recognize

// System prompts for the two chat stages. The vision prompt asks the model
// for one reaction per line in a restricted markup (only ^{}/_{} indices),
// and the refiner prompt splits reactions that were transcribed glued
// together. Both insist on a literal backslash-n line terminator, which
// Cleanup later converts to a real newline.

const visionSystemPrompt = "You are a careful OCR assistant for chemistry textbooks and lab notes. " +
	"Return clean Markdown only. STRICT FORMAT: \n" +
	"- One reaction per line. Use: $REACTANTS → PRODUCTS$ optionally followed by a space and 'conditions: ...'.\n" +
	"- Examples: \n  $I_{2} + 5Cl_{2} + 6H_{2}O = 2HIO_{3} + 10HCl $\n  $ 6NaOH + 3I_{2} → NaIO_{3} + 5NaI + 3H_{2}O$ conditions: 0°C\n  $1/2 I_{2} + (CO)_{4}FeI_{2} → FeI_{3} + 4CO$ conditions: hν, hexane\n" +
	"- Put ANY reaction conditions (catalyst, temperature, solvent, light hν, Δ, pressure, etc.) AFTER the reaction as 'conditions: ...'. Never place them on the arrow or inside the equation.\n" +
	"- No LaTeX, which can't be rendered WITHOUT Word Equation objects. Only simple letex for for upper and lower indexes (H_{2}O, N^{2+}, C_{2}H_{5}OH).\n" +
	"- If the image has multiple columns, transcribe columns SEQUENTIALLY: finish the left column top→bottom, then the right column. Do NOT mix columns.\n" +
	"- Do NOT include ```markdown or ``` code fences.\n" +
	"- After each reaction line output a literal \\n (backslash-n) to mark a new line."

const refinerSystemPrompt = "You are an editor for chemistry reactions. Split any glued reactions into separate lines.\n" +
	"Rules:\n" +
	"- Preserve all content and order; do not invent or drop tokens.\n" +
	"- Exactly one reaction per line: $REACTANTS → PRODUCTS$ optionally followed by ' conditions: ...'.\n" +
	"- If a complete reaction is immediately followed by another, insert a newline between them.\n" +
	"- End every line with a literal \\n (backslash-n)."

const visionUserPrompt = "Extract Markdown as instructed."
