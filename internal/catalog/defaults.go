package catalog

import (
	"sync"

	"github.com/ppiankov/studyprep/internal/model"
)

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in demo catalog
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := New(DefaultDefinition())
		if err != nil {
			panic("catalog: invalid built-in definition: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// DefaultDefinition returns the built-in topics, responses and verification pool.
// Topic order is classification priority.
func DefaultDefinition() Definition {
	return Definition{
		Topics: []TopicDefinition{
			{
				Name:     model.TopicCalculus,
				Keywords: []string{"calculus", "derivative", "integral", "limit", "differential", "fundamental theorem"},
				Responses: []model.ResponseEntry{
					{
						Keywords:   []string{"fundamental theorem", "FTC", "theorem"},
						Response:   "The Fundamental Theorem of Calculus connects differentiation and integration. It has two parts:<br><br>1. If f is continuous on [a,b] and F is an antiderivative of f, then ∫ₐᵇ f(x)dx = F(b) - F(a)<br>2. If f is continuous on [a,b], then the function F(x) = ∫ₐˣ f(t)dt is continuous on [a,b] and differentiable on (a,b), and F'(x) = f(x)<br><br>This theorem forms the basis for calculating definite integrals.",
						Citation:   "Source: Stewart's Calculus, 8th Ed. p. 320",
						Disclaimer: "AI-generated explanation. Verify with textbook or teacher. This topic has been flagged for human verification.",
					},
					{
						Keywords:   []string{"derivative", "differentiation", "slope"},
						Response:   "A derivative represents the instantaneous rate of change of a function at a specific point. Geometrically, it's the slope of the tangent line to the curve at that point.<br><br>For a function f(x), the derivative f'(x) is defined as:<br>f'(x) = lim(h→0) [f(x+h) - f(x)]/h<br><br>Common derivative rules include the power rule, product rule, quotient rule, and chain rule.",
						Citation:   "Source: Anton's Calculus, 11th Ed. Ch. 2",
						Disclaimer: "AI-generated explanation. Please verify with your textbook.",
					},
					{
						Keywords:   []string{"integral", "integration", "area"},
						Response:   "Integration is the reverse process of differentiation. A definite integral ∫ₐᵇ f(x)dx represents the signed area between the curve f(x) and the x-axis from x=a to x=b.<br><br>An indefinite integral ∫f(x)dx represents the family of all antiderivatives of f(x), written as F(x) + C where C is the constant of integration.",
						Citation:   "Source: Larson Calculus, 12th Ed. Ch. 4",
						Disclaimer: "AI-generated explanation. Verify with textbook or teacher.",
					},
				},
			},
			{
				Name:     model.TopicBiology,
				Keywords: []string{"biology", "cell", "dna", "protein", "evolution", "genetics", "organism"},
				Responses: []model.ResponseEntry{
					{
						Keywords:   []string{"DNA", "gene", "genetics"},
						Response:   "DNA (Deoxyribonucleic Acid) is the hereditary material in all living organisms. It consists of two complementary strands forming a double helix structure.<br><br>Key features:<br>• Four nitrogenous bases: Adenine (A), Thymine (T), Guanine (G), Cytosine (C)<br>• Base pairing rules: A-T and G-C<br>• Genes are specific DNA sequences that code for proteins<br>• DNA replication is semiconservative",
						Citation:   "Source: Campbell Biology, 12th Ed. Ch. 16",
						Disclaimer: "AI-generated explanation. Consult your textbook for complete details.",
					},
					{
						Keywords:   []string{"cell", "membrane", "organelle"},
						Response:   "The cell is the basic structural and functional unit of life. Eukaryotic cells contain membrane-bound organelles such as the nucleus, mitochondria and endoplasmic reticulum, while prokaryotic cells lack a nucleus.<br><br>The plasma membrane is a phospholipid bilayer that controls what enters and leaves the cell.",
						Citation:   "Source: Campbell Biology, 12th Ed. Ch. 6",
						Disclaimer: "AI-generated explanation. Consult your textbook for complete details.",
					},
				},
			},
			{
				Name:     model.TopicPhysics,
				Keywords: []string{"physics", "force", "energy", "momentum", "wave", "electromagnetic", "quantum"},
				Responses: []model.ResponseEntry{
					{
						Keywords:   []string{"force", "Newton", "law"},
						Response:   "Newton's Laws of Motion describe the relationship between forces and motion:<br><br>1st Law (Inertia): An object at rest stays at rest, and an object in motion stays in motion at constant velocity, unless acted upon by a net external force.<br><br>2nd Law: F = ma (Force equals mass times acceleration)<br><br>3rd Law: For every action, there is an equal and opposite reaction.",
						Citation:   "Source: Halliday, Resnick & Walker Physics, 12th Ed. Ch. 5",
						Disclaimer: "AI-generated explanation. Verify with your physics textbook.",
					},
					{
						Keywords:   []string{"energy", "kinetic", "potential", "conservation"},
						Response:   "Energy is the capacity to do work. Kinetic energy is KE = ½mv² and gravitational potential energy near Earth's surface is PE = mgh.<br><br>In an isolated system the total mechanical energy is conserved when only conservative forces act.",
						Citation:   "Source: Halliday, Resnick & Walker Physics, 12th Ed. Ch. 7-8",
						Disclaimer: "AI-generated explanation. Verify with your physics textbook.",
					},
				},
			},
			{
				Name:     model.TopicChemistry,
				Keywords: []string{"chemistry", "atom", "molecule", "reaction", "bond", "element"},
				Responses: []model.ResponseEntry{
					{
						Keywords:   []string{"bond", "covalent", "ionic"},
						Response:   "A chemical bond is a lasting attraction between atoms. Covalent bonds share electron pairs between atoms, ionic bonds form from the electrostatic attraction between oppositely charged ions, and metallic bonds arise from delocalized electrons.",
						Citation:   "Source: Zumdahl Chemistry, 10th Ed. Ch. 8",
						Disclaimer: "AI-generated explanation. Verify with your chemistry textbook.",
					},
				},
			},
			{
				Name:     model.TopicAlgebra,
				Keywords: []string{"algebra", "equation", "variable", "polynomial", "quadratic"},
				Responses: []model.ResponseEntry{
					{
						Keywords:   []string{"quadratic"},
						Response:   "A quadratic equation has the form ax² + bx + c = 0 with a ≠ 0. Its solutions are given by the quadratic formula:<br>x = (-b ± √(b² - 4ac)) / 2a<br><br>The discriminant b² - 4ac tells you whether there are two, one or no real solutions.",
						Citation:   "Source: Sullivan Algebra & Trigonometry, 11th Ed. Ch. 1",
					},
				},
			},
			{
				Name:     model.TopicGeometry,
				Keywords: []string{"geometry", "triangle", "circle", "angle", "proof", "theorem"},
				Responses: []model.ResponseEntry{
					{
						Keywords:   []string{"triangle", "pythagorean", "theorem"},
						Response:   "In a right triangle, the Pythagorean theorem states that a² + b² = c², where c is the hypotenuse. The interior angles of any triangle sum to 180°.",
						Citation:   "Source: Jurgensen Geometry, Ch. 8",
					},
				},
			},
			{
				Name: model.TopicGeneral,
				Responses: []model.ResponseEntry{
					{
						Keywords:   []string{"help", "how", "what", "explain"},
						Response:   "I'm here to help explain academic concepts! I can assist with mathematics, science, and other subjects. My responses include:<br><br>• Step-by-step explanations<br>• Textbook citations<br>• Verification by human experts when needed<br><br>What specific topic would you like to explore?",
						Disclaimer: "This is a demo of our AI tutoring system. Full features available with NFT access.",
					},
				},
			},
		},
		Verifiable: []model.Topic{model.TopicCalculus, model.TopicPhysics, model.TopicChemistry, model.TopicBiology},
		Verifiers: []string{
			"Verified by MIT Mathematics Graduate",
			"Verified by Stanford Physics PhD",
			"Verified by Harvard Biology Professor",
			"Verified by Princeton Chemistry Expert",
			"Verified by Berkeley Engineering Faculty",
		},
		Verifications: map[model.Topic][]string{
			model.TopicCalculus: {
				"The previous explanation is mathematically sound. I'd add that understanding the geometric interpretation helps visualize why this theorem works.",
				"Correct approach. For students, I recommend practicing with both algebraic and geometric examples to build intuition.",
				"The explanation is accurate. This concept forms the foundation for advanced calculus, so mastering it is crucial.",
			},
			model.TopicPhysics: {
				"The physics explanation is correct. Real-world applications include everything from GPS satellites to particle accelerators.",
				"Accurate description. This principle underlies many engineering applications you encounter daily.",
				"Well explained. The mathematical formulation correctly represents the physical phenomenon.",
			},
			model.TopicBiology: {
				"The biological explanation is scientifically accurate and follows current research understanding.",
				"Correct interpretation. This process is fundamental to understanding cellular function.",
				"The description aligns with established biological principles and recent discoveries.",
			},
			model.TopicGeneral: {
				"The explanation is accurate and well-structured for student understanding.",
				"Verified as correct. The step-by-step approach will help students learn effectively.",
				"The information provided is reliable and pedagogically sound.",
			},
		},
	}
}
